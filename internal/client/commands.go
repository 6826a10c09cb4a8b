// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-photo-sync/internal/config"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

const loggerRole = "gallery-client"

type runner struct {
	flags  *config.StructuredConfig
	info   models.AppBuildInfo
	viewer ViewerFactory
}

// NewRootCommand builds the gallery command tree. Configuration flags are
// persistent so every subcommand accepts them. viewer may be nil, in which
// case the ui command is not registered.
func NewRootCommand(info models.AppBuildInfo, viewer ViewerFactory) *cobra.Command {
	root := &cobra.Command{
		Use:           "gallery",
		Short:         "Offline-first photo gallery client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	r := &runner{
		flags:  config.BindFlags(root.PersistentFlags()),
		info:   info,
		viewer: viewer,
	}

	root.AddCommand(
		r.listCommand(),
		r.createCommand(),
		r.editCommand(),
		r.deleteCommand(),
		r.pullCommand(),
		r.pushCommand(),
		r.syncCommand(),
		r.loginCommand(),
		r.logoutCommand(),
		r.watchCommand(),
		r.versionCommand(),
	)
	if viewer != nil {
		root.AddCommand(r.uiCommand())
	}

	return root
}

// withApp loads the configuration, builds the App for the duration of fn
// and tears it down afterwards.
func (r *runner) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *App) error) error {
	cfg, err := config.GetClientConfig(r.flags)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.NewClientLogger(loggerRole, cfg.App.LogLevel, cfg.App.LogFile)
	defer log.Close()

	ctx := log.WithContext(cmd.Context())

	a, err := NewApp(ctx, cfg, r.info, log)
	if err != nil {
		log.Err(err).Str("func", "runner.withApp").Msg("error creating app")
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			log.Err(cerr).Str("func", "runner.withApp").Msg("error closing app")
		}
	}()

	return fn(ctx, a)
}

func (r *runner) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the photos visible in the local catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *App) error {
				photos, err := a.Services.CatalogService.List(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), renderCatalog(photos))
				return err
			})
		},
	}
}

func renderCatalog(photos []models.PhotoRecord) string {
	if len(photos) == 0 {
		return "no photos"
	}

	rows := make([][]string, 0, len(photos))
	for _, p := range photos {
		lastErr := ""
		if p.LastError != nil {
			lastErr = *p.LastError
		}
		rows = append(rows, []string{p.LocalKey, p.Title, string(p.SyncState), lastErr})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("KEY", "TITLE", "STATE", "LAST ERROR").
		Rows(rows...).
		String()
}

func (r *runner) createCommand() *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "create <image-file>",
		Short: "Add a photo to the local catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			if !cmd.Flags().Changed("title") {
				base := filepath.Base(args[0])
				title = strings.TrimSuffix(base, filepath.Ext(base))
			}

			return r.withApp(cmd, func(ctx context.Context, a *App) error {
				rec, err := a.Services.MutationService.Create(ctx, models.PhotoDraft{
					Title:       title,
					Description: description,
					Image:       data,
				})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), rec.LocalKey)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Photo title, defaults to the file name")
	cmd.Flags().StringVar(&description, "description", "", "Photo description")
	return cmd
}

func (r *runner) editCommand() *cobra.Command {
	var title, description, imagePath string

	cmd := &cobra.Command{
		Use:   "edit <local-key>",
		Short: "Change the title, description or image of a photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var image []byte
			if imagePath != "" {
				data, err := os.ReadFile(imagePath)
				if err != nil {
					return fmt.Errorf("read image: %w", err)
				}
				image = data
			}

			return r.withApp(cmd, func(ctx context.Context, a *App) error {
				rec, err := a.Services.CatalogService.Get(ctx, args[0])
				if err != nil {
					return err
				}

				if !cmd.Flags().Changed("title") {
					title = rec.Title
				}
				if !cmd.Flags().Changed("description") {
					description = rec.Description
				}

				return a.Services.MutationService.Edit(ctx, rec.LocalKey, title, description, image)
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&imagePath, "image", "", "Replacement image file")
	return cmd
}

func (r *runner) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <local-key>...",
		Short: "Delete photos; uploaded ones are removed remotely on the next push",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *App) error {
				var errs []error
				for _, key := range args {
					if err := a.Services.MutationService.Delete(ctx, key); err != nil {
						errs = append(errs, err)
					}
				}
				return errors.Join(errs...)
			})
		},
	}
}

func (r *runner) pullCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Merge the remote gallery into the local catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *App) error {
				identity, err := a.Identity(ctx)
				if err != nil {
					return err
				}
				return a.Services.SyncService.PullFromRemote(ctx, identity)
			})
		},
	}
}

func (r *runner) pushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Upload pending local changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *App) error {
				identity, err := a.Identity(ctx)
				if err != nil {
					return err
				}
				report, err := a.Services.SyncService.PushPending(ctx, identity)
				fmt.Fprintln(cmd.OutOrStdout(), report)
				return err
			})
		},
	}
}

func (r *runner) syncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull, then push pending changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *App) error {
				identity, err := a.Identity(ctx)
				if err != nil {
					return err
				}
				report, err := a.Services.SyncService.Sync(ctx, identity)
				fmt.Fprintln(cmd.OutOrStdout(), report)
				return err
			})
		},
	}
}

func (r *runner) loginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login <identity>",
		Short: "Sign in and run a first sync",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *App) error {
				report, err := a.Services.SessionService.SignIn(ctx, args[0])
				fmt.Fprintln(cmd.OutOrStdout(), report)
				return err
			})
		},
	}
}

func (r *runner) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the signed-in identity; the local catalog is kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *App) error {
				return a.Services.SessionService.SignOut(ctx)
			})
		},
	}
}

func (r *runner) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run background sync, inbox import and metrics until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *App) error {
				return a.Workers().Run(ctx)
			})
		},
	}
}

func (r *runner) uiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the terminal gallery viewer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *App) error {
				ctx, cancel := context.WithCancel(ctx)
				defer cancel()

				done := make(chan error, 1)
				go func() { done <- a.Workers().Run(ctx) }()

				viewErr := r.viewer(a.Services).Run(ctx)
				cancel()
				return errors.Join(viewErr, <-done)
			})
		},
	}
}

func (r *runner) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), r.info)
		},
	}
}
