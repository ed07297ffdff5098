/*
Package pergola is a navigation orchestration engine for classic
multi-page sites that want app-like page transitions without a
single-page-application rewrite.

The engine intercepts in-page link navigation, fetches the target page's
markup out of band, runs a registered transition instead of a full reload,
and swaps the visible container while keeping history and the document
title consistent. It guarantees at-most-one active transition, shares one
in-flight fetch between a hover-time prefetch and a later click, and
degrades to a hard navigation whenever its invariants would otherwise
break.

# Architecture

The host (a browser bridge, a test harness, a CLI) drives the engine
through Click/Hover/PopState and implements the driven ports: a Browser
(location, history push, hard reload, title), a DOM (markup parsing and
container swapping), and optionally a Fetcher and storage backends. Core
logic stays decoupled from adapters, following Hexagonal Architecture
principles.

# Usage

	eng, err := pergola.New(
		pergola.WithBrowser(browser),
		pergola.WithTransitions(&domain.Transition{
			Name:  "fade",
			From:  domain.Filter{Namespace: "home"},
			Leave: fadeOut,
			Enter: fadeIn,
		}),
	)
	if err != nil {
		log.Fatal(err)
	}

	// Boot from the already-loaded document, then forward link events.
	if err := eng.Boot(ctx, initialMarkup); err != nil {
		log.Fatal(err)
	}
	eng.Hover(ctx, link) // prefetch on hover
	eng.Click(ctx, link) // transitioned navigation
*/
package pergola
