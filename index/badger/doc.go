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


// Package badger implements index.Store on an embedded BadgerDB.
//
// It exists for local runs and tests where no Qdrant instance is
// available. Points are serialized with the MUS format; collections and
// aliases live under key prefixes, and an alias switch is a single-key
// write inside one transaction, so it is atomic by construction. There is
// no background index build, so collections always report "green".
package badger
