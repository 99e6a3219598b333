// Package slides contains the slide kinds a deck manifest can name and the
// loaders that produce them.
//
// Every kind satisfies deck.Module. Slides only call back into the deck
// through the callbacks in deck.Props.
package slides
