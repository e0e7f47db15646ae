// Package main is the entry point for the Beatrix Photos command-line shell.
// The shell is a thin presentation layer over the catalogue core: it owns
// every user-facing string and policy prompt, and calls into the catalog,
// domain and search packages for everything else.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prn-tf/beatrix-photos/internal/catalog"
	"github.com/prn-tf/beatrix-photos/internal/config"
	"github.com/prn-tf/beatrix-photos/internal/domain"
	"github.com/prn-tf/beatrix-photos/internal/photometa"
	"github.com/prn-tf/beatrix-photos/internal/search"
	"github.com/prn-tf/beatrix-photos/internal/snapshot"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	if args[0] == "version" {
		fmt.Printf("Beatrix Photos\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)
		return
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printUsage()
		return
	}

	cfg := config.MustLoad(*configPath)
	setupLogger(cfg.Logging)

	ctx := context.Background()

	store, err := snapshot.Open(ctx, cfg.Snapshot, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open snapshot store")
	}

	cat, err := catalog.Open(ctx, cfg.Seed, store, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open catalog")
	}
	defer func() {
		if err := cat.Close(ctx); err != nil {
			log.Error().Err(err).Msg("failed to close catalog")
		}
	}()

	if err := run(ctx, cat, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogger configures the global zerolog logger.
func setupLogger(cfg config.LoggingConfig) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// run dispatches a single command. Mutating commands save before
// returning; the final save in Close covers the rest.
func run(ctx context.Context, cat *catalog.Catalog, args []string) error {
	switch args[0] {
	case "user":
		return runUser(ctx, cat, args[1:])
	case "album":
		return runAlbum(ctx, cat, args[1:])
	case "photo":
		return runPhoto(ctx, cat, args[1:])
	case "search":
		return runSearch(ctx, cat, args[1:])
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func runUser(ctx context.Context, cat *catalog.Catalog, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: beatrix user <add|delete|list> ...")
	}
	switch args[0] {
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: beatrix user add <username> [password]")
		}
		password := ""
		if len(args) > 2 {
			password = args[2]
		}
		if !cat.AddUser(domain.NewUser(args[1], password)) {
			return fmt.Errorf("%w: %q", domain.ErrUserAlreadyExists, args[1])
		}
		fmt.Printf("Created user %s\n", args[1])
		return cat.Save(ctx)

	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: beatrix user delete <username>")
		}
		// The core leaves stock-account deletion to the caller; the
		// shell is that caller.
		if strings.EqualFold(args[1], domain.StockUsername) {
			return fmt.Errorf("the stock account cannot be deleted")
		}
		if !cat.DeleteUser(args[1]) {
			return fmt.Errorf("%w: %q", domain.ErrUserNotFound, args[1])
		}
		fmt.Printf("Deleted user %s\n", args[1])
		return cat.Save(ctx)

	case "list":
		for _, u := range cat.Users() {
			fmt.Printf("%s (%d albums)\n", u.Username, len(u.Albums))
		}
		return nil

	default:
		return fmt.Errorf("unknown user command: %s", args[0])
	}
}

func runAlbum(ctx context.Context, cat *catalog.Catalog, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: beatrix album <create|delete|rename|list> <username> ...")
	}
	user := cat.GetUser(args[1])
	if user == nil {
		return fmt.Errorf("%w: %q", domain.ErrUserNotFound, args[1])
	}

	switch args[0] {
	case "create":
		if len(args) < 3 {
			return fmt.Errorf("usage: beatrix album create <username> <name>")
		}
		if !user.CreateAlbum(args[2]) {
			return fmt.Errorf("%w: %q", domain.ErrAlbumAlreadyExists, args[2])
		}
		fmt.Printf("Created album %s\n", args[2])
		return cat.Save(ctx)

	case "delete":
		if len(args) < 3 {
			return fmt.Errorf("usage: beatrix album delete <username> <name>")
		}
		if !user.DeleteAlbum(args[2]) {
			if user.Album(args[2]) == nil {
				return fmt.Errorf("%w: %q", domain.ErrAlbumNotFound, args[2])
			}
			return fmt.Errorf("%w: %q", domain.ErrAlbumProtected, args[2])
		}
		fmt.Printf("Deleted album %s\n", args[2])
		return cat.Save(ctx)

	case "rename":
		if len(args) < 4 {
			return fmt.Errorf("usage: beatrix album rename <username> <old> <new>")
		}
		if !user.RenameAlbum(args[2], args[3]) {
			switch {
			case user.Album(args[2]) == nil:
				return fmt.Errorf("%w: %q", domain.ErrAlbumNotFound, args[2])
			case user.Album(args[3]) != nil:
				return fmt.Errorf("%w: %q", domain.ErrAlbumAlreadyExists, args[3])
			default:
				return fmt.Errorf("%w: %q", domain.ErrAlbumProtected, args[2])
			}
		}
		fmt.Printf("Renamed album %s to %s\n", args[2], args[3])
		return cat.Save(ctx)

	case "list":
		for _, name := range user.AlbumNames() {
			album := user.Album(name)
			if start, end, ok := album.DateRange(); ok {
				fmt.Printf("%s (%d photos, %s - %s)\n", name, album.Size(),
					start.Format("2006-01-02"), end.Format("2006-01-02"))
			} else {
				fmt.Printf("%s (empty)\n", name)
			}
		}
		return nil

	default:
		return fmt.Errorf("unknown album command: %s", args[0])
	}
}

func runPhoto(ctx context.Context, cat *catalog.Catalog, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: beatrix photo <add|remove|caption|tag|untag|list> <username> ...")
	}
	user := cat.GetUser(args[1])
	if user == nil {
		return fmt.Errorf("%w: %q", domain.ErrUserNotFound, args[1])
	}

	switch args[0] {
	case "add":
		if len(args) < 4 {
			return fmt.Errorf("usage: beatrix photo add <username> <album> <path>")
		}
		if !user.AddPhotoToAlbum(args[2], args[3], photometa.CaptureTime(args[3])) {
			return fmt.Errorf("photo %q could not be added to album %q", args[3], args[2])
		}
		fmt.Printf("Added %s to %s\n", args[3], args[2])
		return cat.Save(ctx)

	case "remove":
		if len(args) < 4 {
			return fmt.Errorf("usage: beatrix photo remove <username> <album> <path>")
		}
		if !user.RemovePhotoFromAlbum(args[2], args[3]) {
			return fmt.Errorf("photo %q is not in album %q", args[3], args[2])
		}
		fmt.Printf("Removed %s from %s\n", args[3], args[2])
		return cat.Save(ctx)

	case "caption":
		if len(args) < 4 {
			return fmt.Errorf("usage: beatrix photo caption <username> <path> <caption>")
		}
		photo := user.Photo(args[2])
		if photo == nil {
			return fmt.Errorf("%w: %q", domain.ErrPhotoNotFound, args[2])
		}
		photo.SetCaption(strings.Join(args[3:], " "))
		fmt.Printf("Captioned %s\n", args[2])
		return cat.Save(ctx)

	case "tag":
		if len(args) < 5 {
			return fmt.Errorf("usage: beatrix photo tag <username> <path> <name> <value>")
		}
		photo := user.Photo(args[2])
		if photo == nil {
			return fmt.Errorf("%w: %q", domain.ErrPhotoNotFound, args[2])
		}
		if !photo.AddTag(domain.NewTag(args[3], args[4])) {
			return fmt.Errorf("photo already carries %s:%s", args[3], args[4])
		}
		fmt.Printf("Tagged %s with %s:%s\n", args[2], args[3], args[4])
		return cat.Save(ctx)

	case "untag":
		if len(args) < 5 {
			return fmt.Errorf("usage: beatrix photo untag <username> <path> <name> <value>")
		}
		photo := user.Photo(args[2])
		if photo == nil {
			return fmt.Errorf("%w: %q", domain.ErrPhotoNotFound, args[2])
		}
		if !photo.RemoveTag(domain.NewTag(args[3], args[4])) {
			return fmt.Errorf("photo does not carry %s:%s", args[3], args[4])
		}
		fmt.Printf("Untagged %s:%s from %s\n", args[3], args[4], args[2])
		return cat.Save(ctx)

	case "list":
		album := user.Album(args[2])
		if album == nil {
			return fmt.Errorf("%w: %q", domain.ErrAlbumNotFound, args[2])
		}
		printPhotos(album.Photos)
		return nil

	default:
		return fmt.Errorf("unknown photo command: %s", args[0])
	}
}

func runSearch(ctx context.Context, cat *catalog.Catalog, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	into := fs.String("into", "", "materialize results into a new album with this name")

	if len(args) < 2 {
		return fmt.Errorf("usage: beatrix search <date|tags> <username> ...")
	}
	kind := args[0]
	username := args[1]
	if err := fs.Parse(stripFlags(args[2:])); err != nil {
		return err
	}
	rest := positional(args[2:])

	user := cat.GetUser(username)
	if user == nil {
		return fmt.Errorf("%w: %q", domain.ErrUserNotFound, username)
	}

	var results []*domain.Photo
	switch kind {
	case "date":
		if len(rest) < 2 {
			return fmt.Errorf("usage: beatrix search date <username> <start> <end> [-into album]")
		}
		start, err := time.Parse("2006-01-02", rest[0])
		if err != nil {
			return fmt.Errorf("bad start date %q: %w", rest[0], err)
		}
		end, err := time.Parse("2006-01-02", rest[1])
		if err != nil {
			return fmt.Errorf("bad end date %q: %w", rest[1], err)
		}
		results = search.ByDateRange(user, start, end)

	case "tags":
		if len(rest) < 1 {
			return fmt.Errorf("usage: beatrix search tags <username> <name:value> [and|or <name:value>] [-into album]")
		}
		primary, err := parseTagQuery(rest[0])
		if err != nil {
			return err
		}
		var secondary *search.TagQuery
		op := search.And
		if len(rest) >= 3 {
			switch strings.ToLower(rest[1]) {
			case "and":
				op = search.And
			case "or":
				op = search.Or
			default:
				return fmt.Errorf("combinator must be 'and' or 'or', got %q", rest[1])
			}
			q, err := parseTagQuery(rest[2])
			if err != nil {
				return err
			}
			secondary = &q
		}
		results = search.ByTags(user, primary, secondary, op)

	default:
		return fmt.Errorf("unknown search kind: %s", kind)
	}

	printPhotos(results)

	if *into != "" {
		if !search.Materialize(user, *into, results) {
			return fmt.Errorf("%w: %q", domain.ErrAlbumAlreadyExists, *into)
		}
		fmt.Printf("Saved %d results into album %s\n", len(results), *into)
		return cat.Save(ctx)
	}
	return nil
}

// stripFlags returns only the flag-looking arguments so the flag set can
// parse them independently of the positional ones.
func stripFlags(args []string) []string {
	var flags []string
	for i := 0; i < len(args); i++ {
		if strings.HasPrefix(args[i], "-") {
			flags = append(flags, args[i])
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				flags = append(flags, args[i+1])
				i++
			}
		}
	}
	return flags
}

// positional returns only the non-flag arguments.
func positional(args []string) []string {
	var rest []string
	for i := 0; i < len(args); i++ {
		if strings.HasPrefix(args[i], "-") {
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
			}
			continue
		}
		rest = append(rest, args[i])
	}
	return rest
}

// parseTagQuery splits a "name:value" argument.
func parseTagQuery(arg string) (search.TagQuery, error) {
	name, value, found := strings.Cut(arg, ":")
	if !found || name == "" || value == "" {
		return search.TagQuery{}, fmt.Errorf("tag query must look like name:value, got %q", arg)
	}
	return search.TagQuery{Name: name, Value: value}, nil
}

func printPhotos(photos []*domain.Photo) {
	for _, p := range photos {
		line := fmt.Sprintf("%s  taken %s", p.FilePath, p.TakenAt.Format("2006-01-02"))
		if p.Caption != "" {
			line += fmt.Sprintf("  %q", p.Caption)
		}
		if len(p.Tags) > 0 {
			tags := make([]string, 0, len(p.Tags))
			for _, t := range p.Tags {
				tags = append(tags, t.String())
			}
			line += "  [" + strings.Join(tags, ", ") + "]"
		}
		fmt.Println(line)
	}
	fmt.Printf("%d photo(s)\n", len(photos))
}

func printUsage() {
	fmt.Println(`Beatrix Photos

Usage:
  beatrix [-config path] <command> [arguments]

Commands:
  user add <username> [password]
  user delete <username>
  user list
  album create <username> <name>
  album delete <username> <name>
  album rename <username> <old> <new>
  album list <username>
  photo add <username> <album> <path>
  photo remove <username> <album> <path>
  photo caption <username> <path> <caption...>
  photo tag <username> <path> <name> <value>
  photo untag <username> <path> <name> <value>
  photo list <username> <album>
  search date <username> <start> <end> [-into album]
  search tags <username> <name:value> [and|or <name:value>] [-into album]
  version
  help

Examples:
  beatrix user add alice secret
  beatrix album create alice trip
  beatrix photo add alice trip /photos/a.jpg
  beatrix photo tag alice /photos/a.jpg location Paris
  beatrix search tags alice location:paris or person:bob -into results`)
}
