// Package openai implements the ai.Embedder interface using OpenAI-compatible
// embedding APIs via langchaingo. It works with any OpenAI-compatible server,
// including Ollama, LocalAI and vLLM.
package openai
