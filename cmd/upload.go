package cmd

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mocbot/sounddash/internal/api"
	"github.com/mocbot/sounddash/internal/log"
	"github.com/mocbot/sounddash/internal/sound"
	"github.com/mocbot/sounddash/internal/sounds"
)

var uploadSample bool

var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Upload join sounds without starting the dashboard",
	Args: func(cmd *cobra.Command, args []string) error {
		if uploadSample {
			return nil
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().BoolVar(&uploadSample, "sample", false, "upload the built-in sample sound")
	rootCmd.AddCommand(uploadCmd)
}

// printNotifier writes notifications to stdout/stderr for non-interactive use.
type printNotifier struct{}

func (printNotifier) Success(title, description string) { printNote(os.Stdout, title, description) }
func (printNotifier) Info(title, description string)    { printNote(os.Stdout, title, description) }
func (printNotifier) Warning(title, description string) { printNote(os.Stderr, title, description) }
func (printNotifier) Error(title, description string)   { printNote(os.Stderr, title, description) }

func printNote(w *os.File, title, description string) {
	if description == "" {
		fmt.Fprintln(w, title)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", title, description)
}

func runUpload(cmd *cobra.Command, args []string) error {
	defer log.Close()

	client, err := newClient()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	manager := sounds.NewManager(client, printNotifier{}, nil)
	if err := manager.LoadAll(ctx); err != nil {
		return fmt.Errorf("loading current sounds: %w", err)
	}

	var files []api.UploadFile
	if uploadSample {
		files = append(files, api.UploadFile{
			Name:        sound.SampleName,
			ContentType: sound.SampleContentType,
			Data:        sound.Sample(),
		})
	}
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		contentType := mime.TypeByExtension(filepath.Ext(path))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		files = append(files, api.UploadFile{
			Name:        filepath.Base(path),
			ContentType: contentType,
			Data:        data,
		})
	}

	accepted, rejected := sounds.ValidateUpload(files, cfg.Upload.MaxFileSize, cfg.Upload.MaxSounds, len(manager.Sounds()))
	for _, r := range rejected {
		fmt.Fprintf(os.Stderr, "skipping %s: %s\n", r.Name, r.Reason)
	}
	if len(accepted) == 0 {
		return fmt.Errorf("no files to upload")
	}

	resp, err := manager.Upload(ctx, accepted)
	if err != nil {
		return fmt.Errorf("uploading: %w", err)
	}

	uploaded := len(accepted)
	if resp != nil {
		uploaded = resp.SuccessCount
	}
	fmt.Printf("Uploaded %d of %d file(s)\n", uploaded, len(files))
	return nil
}
