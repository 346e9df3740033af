/*
Package parley is a branching dialogue engine: authors build a graph of
nodes and answers through incremental edit commands, persist it as a single
durable blob, and a separate playback state machine traverses it, presenting
choices and triggering host-side callbacks.

The editing and playback halves never share live state. The persisted blob
is the only hand-off point, so an editor and a player can run in different
processes against the same store.

# Architecture

The core is hexagonal. pkg/domain holds the pure data model and its
validation and normalization rules. pkg/ports declares the boundaries
(BlobStore, Notifier, Presence) and pkg/adapters provides file, sqlite,
redis, and in-memory stores plus a read-only HTTP inspection API. The
persistence gateway owns corruption recovery and version stamping; the
editor and the playback engine sit on top and never touch serialization.

# Usage

Open a project directory, edit, and play:

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/parley-dev/parley"
	)

	func main() {
		ctx := context.Background()

		project, err := parley.Open(".")
		if err != nil {
			log.Fatal(err)
		}

		// Build a tiny graph.
		ed := project.Editor()
		_ = ed.CreateNode(ctx, "start")
		_ = ed.SetTitle(ctx, "start", "Hello, traveler")
		if err := ed.Save(ctx); err != nil {
			log.Fatal(err)
		}

		// Bind callbacks, then play it back.
		project.Callbacks().Register("wave", func(ctx context.Context) error {
			fmt.Println("*waves*")
			return nil
		})

		player, _, err := project.Player(ctx)
		if err != nil {
			log.Fatal(err)
		}
		if err := player.Start(ctx); err != nil {
			log.Fatal(err)
		}
		node, _ := player.Current()
		fmt.Println(node.Title)
	}
*/
package parley
