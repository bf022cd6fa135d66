/*
Package session implements conversation access orchestration.

It provides high-level abstractions for handling concurrent access to
conversation threads across multiple replicas, integrating local
per-thread locks with distributed locking and the persistence adapters.
*/
package session
