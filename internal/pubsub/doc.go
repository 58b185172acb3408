// Package pubsub covers both ends of the job queue: the splitter's
// synchronous per-row publish and the worker's push-delivery envelope.
// Delivery is at-least-once and this system performs no deduplication.
package pubsub
