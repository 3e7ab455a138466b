// Package crawler implements the crawl engine: the source registry, the
// page-to-names pipeline, the pause between sources and the orchestrator
// that runs them over a URL list.
package crawler
