/*
Package refine turns a rough product idea into structured product
requirements by running it through a supervisor-directed team of model
agents.

A run starts with a classifier, then loops under a supervisor that
decides which specialist acts next: a domain expert, a UX/UI specialist,
a technical architect or a revenue model analyst. A moderator aggregates
their analyses, a debate analyzer resolves contested questions, and a
finalizer writes the answer. The supervisor's step counter and an
optional wall-clock budget bound every run, so a stalling or
never-terminating model still yields a (possibly partial) result.

The core is decoupled from its surroundings through small interfaces:
providers (Gemini, Claude or a scripted test double), a conversation
store (in-memory or Redis) and a supervisor oracle. Adapters expose the
same workflow over HTTP with SSE streaming, over MCP, and as a CLI.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/refinehq/refine"
		"github.com/refinehq/refine/pkg/domain"
		"github.com/refinehq/refine/pkg/providers/gemini"
	)

	func main() {
		ctx := context.Background()
		provider, err := gemini.New(ctx, gemini.Config{APIKey: "..."})
		if err != nil {
			log.Fatal(err)
		}

		client := refine.New(provider, provider)
		resp, err := client.Refine(ctx, domain.RunRequest{
			Query: "A meal planning app for busy families",
		})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(resp.Answer)
	}
*/
package refine
