// objrel-demo walks through pointers and relations between artists and
// songs against the configured backend.
//
//	objrel-demo [-config objrel.yaml]              run the walkthrough
//	objrel-demo [-config objrel.yaml] -serve :8080 serve the backend over http
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"objrel"
	"objrel/config"
	"objrel/internal/backend"
	"objrel/internal/logging"
	"objrel/internal/music"
	"objrel/query"
	"objrel/record"
	"objrel/store"
	"objrel/store/httpstore"
)

func main() {
	configPath := flag.String("config", "objrel.yaml", "yaml config file, optional")
	serveAddr := flag.String("serve", "", "serve the configured backend over http on this address")
	flag.Parse()

	opts, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := logging.New(opts.Debug, opts.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, *serveAddr, log); err != nil {
		log.Error("demo failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts config.Options, serveAddr string, log *slog.Logger) error {
	st, closer, err := backend.Open(opts)
	if err != nil {
		return err
	}
	defer closer.Close()

	if serveAddr != "" {
		return serve(ctx, st, opts, serveAddr, log)
	}

	reg := record.NewRegistry()
	if err := music.Register(reg); err != nil {
		return err
	}
	return walkthrough(ctx, objrel.NewClient(st, objrel.WithLogger(log), objrel.WithRegistry(reg)), log)
}

func serve(ctx context.Context, st store.Store, opts config.Options, addr string, log *slog.Logger) error {
	srv := &http.Server{
		Addr: addr,
		Handler: httpstore.NewServer(st, httpstore.ServerOptions{
			ApplicationID: opts.ApplicationID,
			ClientKey:     opts.ClientKey,
			Logger:        log,
		}).Handler(),
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	log.Info("serving", "addr", addr, "backend", opts.Backend)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func walkthrough(ctx context.Context, c *objrel.Client, log *slog.Logger) error {
	taylor := music.NewArtist("Taylor Swift")
	mean := music.NewSong("Mean")

	// the artist must be stored before a song can point at it
	_, err := c.PersistAsync(ctx, taylor.Handle()).
		Then(func(artist *record.Handle) (*record.Handle, error) {
			log.Info("saved artist", "artist", artist)
			if err := mean.SetArtist(taylor); err != nil {
				return nil, err
			}
			return c.PersistAsync(ctx, mean.Handle()).Collect()
		}).
		Collect()
	if err != nil {
		return err
	}
	log.Info("saved song", "song", mean.Handle())

	fetched, err := c.Fetch(ctx, music.SongClass, mean.Handle().ID().MustGet())
	if err != nil {
		return err
	}
	song, err := record.As[music.Song](c.Registry(), fetched)
	if err != nil {
		return err
	}
	artist, _ := song.Artist()
	log.Info("song artist before resolve", "artist", artist.Handle(), "name", artist.Name())
	if _, err := c.ResolveIfNeeded(ctx, artist.Handle()); err != nil {
		return err
	}
	log.Info("song artist after resolve", "name", artist.Name())

	first, err := c.FindFirst(ctx, query.New(music.SongClass).WhereEqual("name", "Mean"))
	if err != nil {
		return err
	}
	if h, ok := first.Get(); ok {
		log.Info("found song by name", "song", h)
	}

	byArtist, err := objrel.FindAllAs[music.Song](ctx, c, query.New(music.SongClass).WhereEqual("artist", taylor.Handle()))
	if err != nil {
		return err
	}
	for _, s := range byArtist {
		log.Info("song by artist", "artist", taylor.Name(), "song", s.Name())
	}

	return relations(ctx, c, log)
}

func relations(ctx context.Context, c *objrel.Client, log *slog.Logger) error {
	kendrick := music.NewArtist("Kendrick Lamar")
	humble := music.NewSong("Humble")

	err := objrel.Sequence(ctx,
		func(ctx context.Context) error {
			_, err := c.Persist(ctx, humble.Handle())
			return err
		},
		func(ctx context.Context) error {
			_, err := c.Persist(ctx, kendrick.Handle())
			return err
		},
		func(ctx context.Context) error {
			return kendrick.AddSong(humble)
		},
		func(ctx context.Context) error {
			_, err := c.Persist(ctx, kendrick.Handle())
			return err
		},
	)
	if err != nil {
		return err
	}

	q, err := music.ArtistSongs.Query(kendrick.Handle())
	if err != nil {
		return err
	}
	songs, err := c.FindAllAsync(ctx, q).Collect()
	if err != nil {
		return err
	}
	for _, h := range songs {
		name, _ := h.Field("name")
		log.Info("related song", "artist", kendrick.Name(), "song", name)
	}
	return nil
}
