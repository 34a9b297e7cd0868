// Package app is the application layer, the only place that references
// multiple domain components. The Service orchestrates moderated
// submissions (guard, sentiment pipeline, persistence) and the Aggregator
// rolls questionnaire answers up into per-trait averages.
package app
