/*
Package domain contains the core domain models for the Pergola engine.

It defines the fundamental entities of page navigation: Pages, Transitions,
the NavigationContext, and the history record. This package is kept pure and
free of external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - Page: One rendered or fetched page (URL, namespace, container, markup).
  - Transition: A named set of lifecycle hooks that animate the swap
    between two containers, plus namespace filters for selection.
  - Context: The immutable (current, next, trigger) snapshot passed to
    transition selection and to every lifecycle hook.
  - HistoryEntry: One visited (url, namespace) pair.
*/
package domain
