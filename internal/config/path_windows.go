package config

// DefaultPath is searched when no path is given
const DefaultPath = `C:\`
