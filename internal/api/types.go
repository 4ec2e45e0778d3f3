package api

import "time"

// Mode is the playback selection policy for join sounds.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeRandom Mode = "random"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeSingle || m == ModeRandom
}

// Sound is one uploaded audio clip as the API reports it.
type Sound struct {
	ID           string    `json:"id"`
	UserGuildID  string    `json:"user_guild_id"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// Settings is the user's playback configuration.
// ActiveSoundID is nil when no sound is designated.
type Settings struct {
	UserGuildID   string  `json:"user_guild_id"`
	ActiveSoundID *string `json:"active_sound_id"`
	Mode          Mode    `json:"mode"`
}

// SettingsPatch is a partial settings update. Nil fields are omitted from
// the request body and left unchanged server-side.
type SettingsPatch struct {
	ActiveSoundID *string `json:"active_sound_id,omitempty"`
	Mode          *Mode   `json:"mode,omitempty"`
}

// UploadFile is one file in an upload batch. Name is the display name the
// server will store, after any client-side collision rename.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Upload response statuses.
const (
	UploadSuccess = "success"
	UploadPartial = "partial"
	UploadFailure = "failure"
)

// SuccessFile describes one file the server accepted.
type SuccessFile struct {
	ID           string `json:"id"`
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mime_type"`
}

// FailedFile describes one file the server rejected.
type FailedFile struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
	Index    int    `json:"index"`
}

// UploadResponse is the per-file outcome report for an upload batch.
type UploadResponse struct {
	Status          string        `json:"status"`
	TotalFiles      int           `json:"total_files"`
	SuccessCount    int           `json:"success_count"`
	FailureCount    int           `json:"failure_count"`
	SuccessfulFiles []SuccessFile `json:"successful_files"`
	FailedFiles     []FailedFile  `json:"failed_files"`
	Message         string        `json:"message"`
}

// soundListResponse is the envelope for the sound list endpoint.
type soundListResponse struct {
	Sounds []Sound `json:"sounds"`
}

// settingsResponse is the envelope for the settings endpoint.
type settingsResponse struct {
	Setting Settings `json:"setting"`
}
