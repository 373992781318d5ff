// Package session runs an interactive form session in the terminal. Each
// answer is written through a formstate.Synchronizer, so touched tracking,
// array bookkeeping and eager validation behave exactly as they would behind
// any other input surface. When every field has been visited the collected
// values are normalised and serialised as JSON, YAML or a flat text summary.
package session
