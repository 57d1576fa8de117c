package rpc

type Config struct {
	Enabled bool   `conf:"enabled" yaml:"enabled" json:"enabled"`
	Host    string `conf:"host" yaml:"host" json:"host"`
	Port    int    `conf:"port" yaml:"port" json:"port"`
}
