// Package config defines the format-agnostic exercise catalog model and the
// Loader interface that fills it.
//
// The `config.Model` is the single source of truth for the `app` and `api`
// packages. Concrete loaders, such as for HCL and YAML, are provided in
// separate packages.
package config
