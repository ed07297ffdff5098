/*
Package ports defines the driven ports (interfaces) for the Pergola engine.

These interfaces decouple the core logic from external implementations,
allowing the engine to work with different hosts, markup fetchers, and
storage backends.

# Key Interfaces

  - Fetcher: Resolves a URL to its markup.
  - DOM: Parses markup into container/namespace/title and swaps containers.
  - Browser: The host surface: location, history push, hard reload, title.
  - MarkupStore: Second-level storage for resolved markup.
  - HistoryStore: Persistence for the visited-page log.
*/
package ports
