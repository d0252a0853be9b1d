// Command taskhive is a read-oriented CLI over the taskhive store:
// it lists workspaces, prints a workspace tree, and tails activity.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhive/taskhive/internal/cli"
	"github.com/taskhive/taskhive/internal/model"
	"github.com/taskhive/taskhive/internal/store"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to config file")
	dbPath := flag.String("db", "", "override database path from config")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()

	s, err := store.NewSQLiteStore(cfg.Database.Path, log)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("failed to open store")
	}
	defer s.Close()

	if err := run(context.Background(), s, flag.Args()); err != nil {
		if model.IsNotFound(err) || model.IsValidation(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("command failed")
	}
}

func run(ctx context.Context, s store.Store, args []string) error {
	if len(args) == 0 {
		usage()
		return nil
	}

	switch args[0] {
	case "workspaces":
		return printWorkspaces(ctx, s)
	case "tree":
		if len(args) < 2 {
			return fmt.Errorf("usage: taskhive tree <workspace-slug>")
		}
		return printTree(ctx, s, args[1])
	case "tasks":
		if len(args) < 2 {
			return fmt.Errorf("usage: taskhive tasks <list-id>")
		}
		return printTasks(ctx, s, args[1])
	case "feed":
		if len(args) < 2 {
			return fmt.Errorf("usage: taskhive feed <workspace-slug>")
		}
		return printFeed(ctx, s, args[1])
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage() {
	fmt.Println("Usage: taskhive [flags] <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  workspaces              list all workspaces")
	fmt.Println("  tree <workspace-slug>   print spaces, folders, and lists")
	fmt.Println("  tasks <list-id>         print the tasks of a list")
	fmt.Println("  feed <workspace-slug>   print recent activity")
}

func printWorkspaces(ctx context.Context, s store.Store) error {
	workspaces, err := s.GetWorkspaces(ctx)
	if err != nil {
		return err
	}
	for i := range workspaces {
		fmt.Println(cli.WorkspaceHeading(&workspaces[i]))
	}
	return nil
}

func printTree(ctx context.Context, s store.Store, slug string) error {
	ws, err := s.GetWorkspaceBySlug(ctx, slug)
	if err != nil {
		return err
	}
	fmt.Println(cli.WorkspaceHeading(ws))

	spaces, err := s.GetWorkspaceSpaces(ctx, ws.ID)
	if err != nil {
		return err
	}
	for i := range spaces {
		space := &spaces[i]
		lists, err := s.GetSpaceTaskLists(ctx, space.ID)
		if err != nil {
			return err
		}
		fmt.Println("  " + cli.SpaceLine(space, len(lists)))

		folders, err := s.GetSpaceFolders(ctx, space.ID)
		if err != nil {
			return err
		}
		byFolder := make(map[string][]model.TaskList)
		var folderless []model.TaskList
		for _, l := range lists {
			if l.FolderID != nil {
				byFolder[*l.FolderID] = append(byFolder[*l.FolderID], l)
			} else {
				folderless = append(folderless, l)
			}
		}
		for _, f := range folders {
			fmt.Println("    " + f.Name + "/")
			for _, l := range byFolder[f.ID] {
				if err := printListLine(ctx, s, "      ", l); err != nil {
					return err
				}
			}
		}
		for _, l := range folderless {
			if err := printListLine(ctx, s, "    ", l); err != nil {
				return err
			}
		}
	}
	return nil
}

func printListLine(ctx context.Context, s store.Store, indent string, l model.TaskList) error {
	tasks, err := s.GetListTasks(ctx, l.ID, store.TaskFilter{IncludeSubtasks: true})
	if err != nil {
		return err
	}
	fmt.Printf("%s%s (%d tasks)\n", indent, l.Name, len(tasks))
	return nil
}

func printTasks(ctx context.Context, s store.Store, listID string) error {
	list, err := s.GetTaskList(ctx, listID)
	if err != nil {
		return err
	}
	fmt.Println(cli.HeaderStyle.Render(list.Name))

	tasks, err := s.GetListTasks(ctx, listID, store.TaskFilter{})
	if err != nil {
		return err
	}
	for i := range tasks {
		fmt.Println("  " + cli.TaskLine(&tasks[i]))
	}
	return nil
}

func printFeed(ctx context.Context, s store.Store, slug string) error {
	ws, err := s.GetWorkspaceBySlug(ctx, slug)
	if err != nil {
		return err
	}
	activities, err := s.GetWorkspaceActivity(ctx, ws.ID, 50)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for i := range activities {
		fmt.Println(cli.ActivityLine(&activities[i], now))
	}
	return nil
}
