// ABOUTME: Upload command for the dairy CLI
// ABOUTME: Sends files as multipart form data with a live progress bar

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/client"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/tui/widgets"
)

var (
	uploadTarget    string
	uploadMethod    string
	uploadFileField string
	uploadFields    []string
)

var uploadCmd = &cobra.Command{
	Use:   "upload FILE...",
	Short: "Upload files to the API",
	Long: `Upload one or more files as multipart form data using the saved session.

Example:
  dairy upload bill.pdf --field customer=42 --method PUT`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitUsage)
		}
		store, err := openStore(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitUsage)
		}

		opts := uploadOptions{
			Target:    uploadTarget,
			Method:    uploadMethod,
			FileField: uploadFileField,
			Fields:    uploadFields,
			Paths:     args,
		}
		exitCode := runUpload(ctx, os.Stdout, newClient(cfg, store), opts)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().StringVar(&uploadTarget, "to", client.EndpointUpload, "Endpoint to upload to")
	uploadCmd.Flags().StringVar(&uploadMethod, "method", "POST", "HTTP method (POST or PUT)")
	uploadCmd.Flags().StringVar(&uploadFileField, "file-field", "files", "Form field name for the files")
	uploadCmd.Flags().StringArrayVar(&uploadFields, "field", nil, "Extra form field as key=value (repeatable)")
}

type uploader interface {
	Upload(ctx context.Context, req client.UploadRequest) (*client.UploadTask, error)
}

type uploadOptions struct {
	Target    string
	Method    string
	FileField string
	Fields    []string
	Paths     []string
}

// parseFields turns key=value pairs into a payload, keeping their order
func parseFields(pairs []string) (client.Payload, error) {
	var p client.Payload
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: field %q is not key=value", errUsage, pair)
		}
		p = append(p, client.Field{Key: key, Value: value})
	}
	return p, nil
}

// runUpload opens the files, streams them and returns the exit code
func runUpload(ctx context.Context, w io.Writer, api uploader, opts uploadOptions) int {
	fields, err := parseFields(opts.Fields)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitUsage
	}

	files := make([]client.File, 0, len(opts.Paths))
	for _, path := range opts.Paths {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitUsage
		}
		defer f.Close()
		files = append(files, client.File{Field: opts.FileField, Name: filepath.Base(path), Content: f})
	}

	task, err := api.Upload(ctx, client.UploadRequest{
		Method: opts.Method,
		Target: opts.Target,
		Fields: fields,
		Files:  files,
	})
	if err != nil {
		if errors.Is(err, client.ErrOffline) {
			fmt.Fprintln(w, client.MsgOffline)
			return exitFailed
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		if errors.Is(err, client.ErrInvalidMethod) {
			return exitUsage
		}
		return exitFailed
	}

	showProgress := !IsJSONOutput()
	cfg := widgets.DefaultProgressBarConfig()
	for pct := range task.Progress() {
		if showProgress {
			fmt.Fprintf(w, "\rUploading %s", widgets.ProgressBarWithLabel(pct, cfg))
		}
	}
	res := task.Wait()
	if showProgress {
		fmt.Fprintln(w)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(res, "", "  ")
		fmt.Fprintln(w, string(data))
	} else if res.Status {
		msg := res.Message
		if msg == "" {
			msg = "Upload complete"
		}
		fmt.Fprintln(w, msg)
	} else {
		fmt.Fprintf(w, "Upload failed: %s\n", res.Message)
	}

	if !res.Status {
		return exitFailed
	}
	return exitOK
}
