// Package models lists the OpenAI chat models available to the current
// API key, so a translation model can be picked for the openai provider.
package models
