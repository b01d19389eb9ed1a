// Package producers keeps per-producer bookkeeping for a capture session.
//
// Stats records when a producer was first and last heard from, how many
// events of each kind it sent, how many of its announcements were forwarded
// or merged into an existing global id, and the issues raised about its
// stream (decode errors, producer warnings).
//
// Manager provides command-query separation:
//
// Queries (read-only, return copies):
//   - Get(producerID) - Stats of one producer
//   - IDs() - Producers seen, ascending
//   - Snapshot() - Stats of every producer
//
// Commands (mutations):
//   - RecordEvent(producerID, kind) - Count a received event
//   - ObserveAnnouncement(producerID, pool, forwarded) - Count an announcement
//   - AddIssue(producerID, issue) - Add a stream issue
//   - Delete(producerID) - Forget a producer
//
// Thread-safe with RWMutex for concurrent access.
package producers
