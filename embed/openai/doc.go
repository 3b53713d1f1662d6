// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package openai implements embed.Embedder against OpenAI-compatible
// embedding APIs using the langchaingo client. It works with OpenAI itself
// and with compatible local servers such as Ollama, LocalAI or vLLM.
//
// Provider failures are classified into the embed package's error taxonomy
// so the retry layer can tell transient failures (rate limits, 5xx,
// connection errors) from permanent ones (other 4xx).
package openai
