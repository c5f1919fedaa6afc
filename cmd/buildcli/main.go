package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dom/league-builds/internal/build"
	"github.com/dom/league-builds/internal/client"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "build":
		buildCmd(apiURL, args)
	case "items":
		itemsCmd(apiURL, args)
	case "builds":
		buildsCmd(apiURL, args)
	case "favorites":
		favoritesCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Build CLI - assemble and save item builds from the terminal

USAGE:
  buildcli <command> [options]

COMMANDS:
  build      Assemble a build for a champion, print its stats and optionally save it
  items      List catalog items
  builds     List your saved builds
  favorites  List, add or remove favorite champions
  help       Show this help message

ENVIRONMENT:
  API_URL          Backend API URL (default: http://localhost:8080)
  BUILDS_EMAIL     Account email used by commands that need a login
  BUILDS_PASSWORD  Account password

EXAMPLES:
  # Preview Garen at level 11 with greaves and Infinity Edge
  buildcli build --champion=Garen --items=3006,3031 --level=11 --ranks=5,3,2,1

  # Save the build to your account
  buildcli build --champion=Garen --items=3006,3031 --save

  # Edit a saved build
  buildcli build --champion=Garen --edit=<build-id> --items=3047 --save

  # Search items
  buildcli items --q=edge

  # Add a favorite
  buildcli favorites --add=Garen`)
}

func login(ctx context.Context, c *client.APIClient) string {
	email := os.Getenv("BUILDS_EMAIL")
	password := os.Getenv("BUILDS_PASSWORD")
	if email == "" || password == "" {
		fmt.Println("Error: BUILDS_EMAIL and BUILDS_PASSWORD are required for this command")
		os.Exit(1)
	}

	fmt.Print("Logging in... ")
	resp, err := c.Login(ctx, email, password)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (user: %s)\n", resp.User.Username)
	return resp.AccessToken
}

func buildCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	champion := fs.String("champion", "", "Champion id, e.g. Garen")
	items := fs.String("items", "", "Comma separated item ids to add in order")
	level := fs.Int("level", 1, "Champion level (1-18)")
	ranks := fs.String("ranks", "0,0,0,0", "Ability ranks for Q,W,E,R")
	edit := fs.String("edit", "", "Saved build id to edit")
	save := fs.Bool("save", false, "Save the build to your account")
	fs.Parse(args)

	if *champion == "" {
		fmt.Println("Error: --champion is required")
		os.Exit(1)
	}
	parsedRanks, err := parseRanks(*ranks)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	c := client.NewAPIClient(apiURL)

	var token string
	if *save || *edit != "" {
		token = login(ctx, c)
	}

	var seed *build.SavedBuild
	if *edit != "" {
		seed, err = c.GetBuild(ctx, token, *edit)
		if err != nil {
			fmt.Printf("Failed to load build %s: %v\n", *edit, err)
			os.Exit(1)
		}
	}

	session := build.NewSession(build.SessionConfig{
		ChampionID: *champion,
		Loader:     c,
		Persister:  c,
		Token:      func() string { return token },
		Seed:       seed,
	})
	defer session.Close()

	fmt.Printf("Loading %s and the item catalog... ", *champion)
	if err := session.Load(ctx); err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (patch %s, %d items)\n", session.Catalog().Version(), session.Catalog().Len())

	if seed != nil {
		fmt.Printf("Editing build %s: %v\n", seed.ID, session.Items())
	}

	for _, id := range splitList(*items) {
		if err := session.Toggle(id); err != nil {
			if reason, ok := build.ReasonOf(err); ok {
				fmt.Printf("  skip %s: %s\n", id, reason.Message())
				continue
			}
			fmt.Printf("  skip %s: %v\n", id, err)
		}
	}

	if err := session.SetLevel(*level); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	for slot, rank := range parsedRanks {
		for i := 0; i < rank; i++ {
			if err := session.RankUp(slot); err != nil {
				fmt.Printf("Error: rank %d for slot %d: %v\n", rank, slot, err)
				os.Exit(1)
			}
		}
	}

	printBuild(session)

	if !*save {
		return
	}

	fmt.Println()
	fmt.Print("Saving build... ")
	saved, err := session.Save(ctx)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (id: %s)\n", saved.ID)
}

func itemsCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("items", flag.ExitOnError)
	category := fs.String("category", "", "Only items of this category")
	tag := fs.String("tag", "", "Only items with this raw tag")
	q := fs.String("q", "", "Name search")
	fs.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := client.NewAPIClient(apiURL)
	resp, err := c.Items(ctx, build.ItemQuery{
		Category: build.Category(*category),
		Tag:      *tag,
		Search:   *q,
	})
	if err != nil {
		fmt.Printf("Failed to list items: %v\n", err)
		os.Exit(1)
	}

	printItems(resp)
}

func buildsCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("builds", flag.ExitOnError)
	champion := fs.String("champion", "", "Only builds for this champion")
	del := fs.String("delete", "", "Delete the build with this id")
	fs.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := client.NewAPIClient(apiURL)
	token := login(ctx, c)

	if *del != "" {
		if err := c.DeleteBuild(ctx, token, *del); err != nil {
			fmt.Printf("Failed to delete build: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted build %s\n", *del)
		return
	}

	builds, err := c.Builds(ctx, token, *champion)
	if err != nil {
		fmt.Printf("Failed to list builds: %v\n", err)
		os.Exit(1)
	}
	printBuilds(builds)
}

func favoritesCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("favorites", flag.ExitOnError)
	add := fs.String("add", "", "Champion id to add")
	remove := fs.String("remove", "", "Champion id to remove")
	fs.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := client.NewAPIClient(apiURL)
	token := login(ctx, c)

	switch {
	case *add != "":
		if err := c.AddFavorite(ctx, token, *add); err != nil {
			fmt.Printf("Failed to add favorite: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added %s\n", *add)
	case *remove != "":
		if err := c.RemoveFavorite(ctx, token, *remove); err != nil {
			fmt.Printf("Failed to remove favorite: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Removed %s\n", *remove)
	default:
		ids, err := c.Favorites(ctx, token)
		if err != nil {
			fmt.Printf("Failed to list favorites: %v\n", err)
			os.Exit(1)
		}
		if len(ids) == 0 {
			fmt.Println("No favorites yet")
			return
		}
		for _, id := range ids {
			fmt.Println(id)
		}
	}
}
