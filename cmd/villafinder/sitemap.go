package main

import (
	"github.com/spf13/cobra"

	"villafinder/internal/app/dto"
	sitemapapp "villafinder/internal/app/handlers/sitemap"
	"villafinder/internal/app/queries"
	ginserver "villafinder/internal/infra/http/gin"
)

func newSitemapCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sitemap",
		Short: "Print sitemap.xml for the configured content store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := opts.cfg
			cfg.KafkaBrokers = nil
			cfg.RedisAddr = ""

			app, err := buildApplication(ctx, cfg, opts.tuning, opts.logger)
			if err != nil {
				return err
			}
			defer app.close()
			if app.memory != nil {
				if err := loadFixturesIntoMemory(ctx, app, cfg.FixturesFile, opts.logger); err != nil {
					return err
				}
			}

			result, err := queries.Ask[sitemapapp.GetSitemapQuery, dto.Sitemap](ctx, app.queries, sitemapapp.GetSitemapQuery{})
			if err != nil {
				return err
			}
			body, err := ginserver.MarshalSitemap(result)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(body, '\n'))
			return err
		},
	}
}
