package main

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"villafinder/internal/domain/enrich"
	"villafinder/internal/domain/villas"
)

type imageUploader interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	var (
		uploadImages bool
		purgeCache   bool
	)
	cmd := &cobra.Command{
		Use:   "import <fixtures.json>",
		Short: "Enrich scraped villas and scoops and write them to the content store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, logger := opts.cfg, opts.logger
			// Import never relays events; skip the broker wiring.
			cfg.KafkaBrokers = nil

			app, err := buildApplication(ctx, cfg, opts.tuning, logger)
			if err != nil {
				return err
			}
			defer app.close()

			if app.memory != nil {
				logger.Warn("STORE_DRIVER=memory: import only validates fixtures, nothing is persisted")
			}
			file, err := readFixtures(args[0])
			if err != nil {
				return err
			}
			im := &importer{
				factory:  app.factory,
				enricher: enrich.NewEnricher(nil),
				baseDir:  filepath.Dir(args[0]),
				logger:   logger,
			}
			if uploadImages {
				if app.images == nil {
					return fmt.Errorf("--upload-images requires S3_ENDPOINT")
				}
				im.images = app.images
			}
			stats, err := im.run(ctx, file)
			if err != nil {
				return err
			}
			if purgeCache && app.pageCache != nil {
				n, err := app.pageCache.Purge(ctx, "")
				if err != nil {
					logger.Warn("page cache purge failed", "error", err)
				} else {
					logger.Info("page cache purged", "keys", n)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d villas, %d scoops (%d skipped)\n", stats.Villas, stats.Scoops, stats.Skipped)
			return nil
		},
	}
	cmd.Flags().BoolVar(&uploadImages, "upload-images", false, "upload local image files referenced by fixtures to S3")
	cmd.Flags().BoolVar(&purgeCache, "purge-cache", true, "drop cached pages after a successful import")
	return cmd
}

// uploadVillaImages replaces local file references with object keys. Remote
// URLs and files that cannot be read are left untouched.
func (im *importer) uploadVillaImages(ctx context.Context, v *villas.Villa) {
	upload := func(ref string) string {
		if ref == "" || strings.Contains(ref, "://") {
			return ref
		}
		local := ref
		if !filepath.IsAbs(local) {
			local = filepath.Join(im.baseDir, local)
		}
		f, err := os.Open(local)
		if err != nil {
			return ref
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil || info.IsDir() {
			return ref
		}
		key := path.Join("villas", v.Slug, filepath.Base(local))
		contentType := mime.TypeByExtension(filepath.Ext(local))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		stored, err := im.images.Upload(ctx, key, f, info.Size(), contentType)
		if err != nil {
			im.logger.Warn("image upload failed", "slug", v.Slug, "file", local, "error", err)
			return ref
		}
		return stored
	}

	v.CoverImage = upload(v.CoverImage)
	for i, ref := range v.Images {
		v.Images[i] = upload(ref)
	}
}
