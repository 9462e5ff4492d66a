package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/nano/internal/app"
	"github.com/llehouerou/nano/internal/auth"
	"github.com/llehouerou/nano/internal/catalog"
	"github.com/llehouerou/nano/internal/config"
	"github.com/llehouerou/nano/internal/element"
	"github.com/llehouerou/nano/internal/errmsg"
	"github.com/llehouerou/nano/internal/player"
	"github.com/llehouerou/nano/internal/session"
	"github.com/llehouerou/nano/internal/state"
	"github.com/llehouerou/nano/internal/stderr"
	"github.com/llehouerou/nano/internal/storage"
	"github.com/llehouerou/nano/internal/upload"
)

type backend struct {
	cfg       *config.Config
	auth      *auth.Session
	refresher *auth.Refresher
	catalog   *catalog.Client
	storage   *storage.Client
}

// connect loads the configuration and signs in, returning clients with
// the bearer token already attached.
func connect(ctx context.Context) (*backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}
	if !cfg.HasBackend() {
		return nil, errors.New("no backend configured: set supabase.url and supabase.anon_key in ~/.config/nano/config.toml")
	}
	if !cfg.HasCredentials() {
		return nil, errors.New("no credentials configured: set supabase.email and supabase.password in ~/.config/nano/config.toml")
	}

	authClient := auth.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey)
	authSess, err := authClient.SignIn(ctx, cfg.Supabase.Email, cfg.Supabase.Password)
	if err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpSignIn, err))
	}

	cat := catalog.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey)
	cat.SetAccessToken(authSess.AccessToken)

	store := storage.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey)
	store.SetAccessToken(authSess.AccessToken)

	return &backend{
		cfg:       cfg,
		auth:      authSess,
		refresher: auth.NewRefresher(authClient, authSess, cat, store),
		catalog:   cat,
		storage:   store,
	}, nil
}

// SignedURL renews the bearer token when needed, then signs through the
// storage client. The TUI outlives the access token, so every playback
// URL request checks in here first.
func (b *backend) SignedURL(ctx context.Context, bucket, object string, ttl time.Duration) (string, error) {
	if _, err := b.refresher.Fresh(ctx); err != nil {
		return "", errors.New(errmsg.Format(errmsg.OpTokenRefresh, err))
	}
	return b.storage.SignedURL(ctx, bucket, object, ttl)
}

// List renews the bearer token when needed, then lists through the
// catalog client.
func (b *backend) List(ctx context.Context, userID string) ([]catalog.AudioFile, error) {
	if _, err := b.refresher.Fresh(ctx); err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpTokenRefresh, err))
	}
	return b.catalog.List(ctx, userID)
}

func run() error {
	ctx := context.Background()

	be, err := connect(ctx)
	if err != nil {
		return err
	}

	slot, err := state.Open()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer slot.Close()

	sess := session.New()
	adapter := state.NewAdapter(slot)

	// Hydrate before anything observes the session, then keep the slot
	// mirroring every change.
	adapter.Hydrate(sess)
	stopMirror := adapter.Mirror(sess)
	defer stopMirror()

	// ALSA writes directly to fd 2 and would tear the TUI apart.
	_ = stderr.Start()
	defer stderr.Stop()

	el := player.New()
	defer el.Close()

	ctrl := element.NewController(sess, el, be, be.cfg.AudioBucket)
	ctrl.Start()
	defer ctrl.Stop()

	m := app.New(sess, el, be, be.auth.User.ID,
		adapter.Errors(), ctrl.Errors(), stderr.Messages)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runUpload(paths []string) error {
	if len(paths) == 0 {
		return errors.New("usage: nano upload FILE...")
	}

	ctx := context.Background()
	be, err := connect(ctx)
	if err != nil {
		return err
	}

	u := upload.New(be.catalog, be.storage, be.cfg.AudioBucket, be.cfg.CoverArtBucket, be.auth.User.ID)
	results := u.UploadAll(ctx, paths)

	failed := 0
	for _, res := range results {
		fmt.Println(res)
		if res.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(results))
	}
	return nil
}

// runDownload saves a library song to the download folder (or the
// working directory when none is configured).
func runDownload(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: nano download TITLE")
	}
	title := strings.Join(args, " ")

	ctx := context.Background()
	be, err := connect(ctx)
	if err != nil {
		return err
	}

	files, err := be.catalog.List(ctx, be.auth.User.ID)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpLibraryLoad, err))
	}

	var match *catalog.AudioFile
	for i, f := range files {
		if !strings.Contains(strings.ToLower(f.Title), strings.ToLower(title)) {
			continue
		}
		if match != nil {
			return fmt.Errorf("%q matches both %q and %q", title, match.Title, f.Title)
		}
		match = &files[i]
	}
	if match == nil {
		return fmt.Errorf("no song matching %q", title)
	}
	if match.FilePath == "" {
		return fmt.Errorf("%q has no stored audio", match.Title)
	}

	body, err := be.storage.Download(ctx, be.cfg.AudioBucket, match.FilePath)
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpDownload, match.Title, err))
	}
	defer body.Close()

	dir := be.cfg.DownloadFolder
	if dir == "" {
		dir = "."
	}
	dst := filepath.Join(dir, match.Title+filepath.Ext(match.FilePath))
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := io.Copy(f, body)
	if err != nil {
		os.Remove(dst)
		return errors.New(errmsg.FormatWith(errmsg.OpDownload, match.Title, err))
	}

	fmt.Printf("%s: saved to %s (%s)\n", match.Title, dst, humanize.Bytes(uint64(n)))
	return nil
}

func main() {
	var err error
	switch {
	case len(os.Args) > 1 && os.Args[1] == "upload":
		err = runUpload(os.Args[2:])
	case len(os.Args) > 1 && os.Args[1] == "download":
		err = runDownload(os.Args[2:])
	default:
		err = run()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
