package main

import (
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"adstudio/internal/domain"
	"adstudio/internal/storage"
	"adstudio/pkg/zip"
)

func newPreviewCmd() *cobra.Command {
	var (
		download bool
		dir      string
	)
	cmd := &cobra.Command{
		Use:   "preview <video-id>",
		Short: "Show a freshly signed playback URL for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			r := e.resolver()
			pb, err := r.Resolve(cmd.Context(), args[0])
			if err != nil {
				return explain(err)
			}
			out := cmd.OutOrStdout()
			title := pb.Title
			if title == "" {
				title = "Your AI Ad"
			}
			fmt.Fprintf(out, "%s\n", title)
			fmt.Fprintf(out, "Status: %s\n", pb.Status.Label())
			fmt.Fprintf(out, "Watch:  %s\n", pb.URL)
			if !download {
				return nil
			}

			if dir == "" {
				dir = e.cfg.DownloadDir
			}
			d, err := storage.NewDownloads(dir)
			if err != nil {
				return err
			}
			path, err := d.Save(cmd.Context(), pb.DownloadFilename(), func(w io.Writer) error {
				_, err := r.Download(cmd.Context(), pb, w)
				return err
			})
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(out, "Saved:  %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&download, "download", "d", false, "save the video to disk")
	cmd.Flags().StringVar(&dir, "dir", "", "download directory (default DOWNLOAD_DIR)")
	return cmd
}

func newVideosCmd() *cobra.Command {
	var archive string
	cmd := &cobra.Command{
		Use:     "videos",
		Aliases: []string{"dashboard", "ls"},
		Short:   "List your videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			items, err := e.lister().List(cmd.Context(), "")
			if err != nil {
				return explain(err)
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No videos yet. Run `adgen generate` to create your first ad.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tCREATED\tSTATUS")
			for _, v := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", v.ID, v.Title, v.CreatedLabel(), v.Status.Label())
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if archive == "" {
				return nil
			}
			return exportArchive(cmd, e, items, archive)
		},
	}
	cmd.Flags().StringVar(&archive, "archive", "", "also save every ready video into this zip file")
	return cmd
}

// exportArchive resolves each ready video again right before downloading it;
// the URLs in the listing may have expired while earlier entries streamed.
func exportArchive(cmd *cobra.Command, e *env, items []domain.VideoRecord, name string) error {
	ctx := cmd.Context()
	dir := filepath.Dir(name)
	if !filepath.IsAbs(name) {
		dir = filepath.Join(e.cfg.DownloadDir, dir)
	}
	d, err := storage.NewDownloads(dir)
	if err != nil {
		return err
	}
	r := e.resolver()
	count := 0
	path, err := d.Save(ctx, filepath.Base(name), func(w io.Writer) error {
		a := zip.NewArchive(w)
		for _, v := range items {
			if !v.Status.Ready() {
				continue
			}
			pb, err := r.Resolve(ctx, v.ID)
			if err != nil {
				return explain(err)
			}
			modified, _ := v.CreatedTime()
			if _, err := a.Add(pb.DownloadFilename(), modified, func(w io.Writer) error {
				_, err := r.Download(ctx, pb, w)
				return err
			}); err != nil {
				return explain(err)
			}
			count++
		}
		return a.Close()
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d video(s) to %s\n", count, path)
	return nil
}
