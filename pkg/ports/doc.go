/*
Package ports defines the driven ports (interfaces) for the Parley engine.

These interfaces decouple the core logic from external implementations, allowing
the editor and player to work with various blob backends, display surfaces, and
audience-availability checks.

# Key Interfaces

  - BlobStore: Reads and writes the single opaque blob the graph persists as.
  - Notifier: Receives change-notification envelopes from the editor.
  - Presence: Answers whether the audience is still eligible to continue playback.
*/
package ports
