// Package events publishes board domain events after successful writes.
//
// # Components
//
//   - Emitter: builds domain.Event values from write outcomes and hands them
//     to a Publisher, logging and counting failures
//   - KafkaPublisher: writes JSON envelopes to a Kafka topic via kafka-go
//   - NopPublisher: discards events when Kafka is disabled
//
// # Event Types
//
//   - article.votes_updated: an article's votes changed
//   - comment.created: a comment was posted
//   - comment.deleted: a comment was removed
//
// Publishing is best-effort. A write that succeeded in the database is never
// reported as failed to the client because its event could not be delivered.
package events
