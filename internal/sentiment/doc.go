// Package sentiment implements the two-stage classification pipeline:
// translation of arbitrary-language text to English, followed by sentiment
// classification of the translated text. Both stages are remote capability
// calls with bounded timeouts; the pipeline itself is stateless.
package sentiment
