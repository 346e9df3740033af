/*
Package domain contains the core domain models and business logic for the Parley engine.

It defines the fundamental entities of a branching dialogue, such as Nodes,
Answers, and the persisted graph metadata, together with the pure validation and
normalization rules applied to them. This package is kept free of I/O and
persistence concerns, following Hexagonal Architecture principles.

# Key Entities

  - Node: One unit of dialogue content, a title plus 1..5 selectable answers.
  - Answer: A single choice, optionally leading to another node and/or naming a callback.
  - Graph: The complete node set, addressable by id.
  - Meta / Config: Blob-level bookkeeping (version stamp, timestamps, defaults).
  - Notification / Interaction: The flat envelopes exchanged with display collaborators.
*/
package domain
