// Package config manages branchforest repository configuration.
//
// Settings live in a JSON file inside the repository's .git directory and
// can be overridden per invocation through environment variables. Command
// line flags take precedence over both and are applied by the cli package.
package config
