/*
Package ports defines the driven ports (interfaces) for the Refine engine.

These interfaces decouple the workflow core from external collaborators,
allowing the engine to be constructed with any provider backend,
conversation store or locking strategy, including test doubles.

# Key Interfaces

  - Provider: the analysis-provider boundary (classification, specialist
    analyses, debate, aggregation, final answer).
  - Oracle: the supervisor's external decision maker.
  - ConversationStore: best-effort snapshot persistence keyed by thread.
  - DistributedLocker: distributed locking for concurrent thread access.
*/
package ports
