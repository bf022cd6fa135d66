/*
Package domain contains the core domain models for the Refine engine.

It defines the typed state record for a refinement run, the closed enums
driving routing decisions, the append-only history ledger and the
structured provider result types. This package is kept pure and free of
external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - State: the single mutable record threaded through one run, with
    per-field write ownership.
  - HistoryEntry: one immutable ledger entry per node execution.
  - Delta: the state update produced by a node, merged by the engine.
  - NodeID / AgentType / Decision: the closed unions the router
    dispatches on.
*/
package domain
