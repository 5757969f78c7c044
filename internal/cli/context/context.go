package cliContext

type Context struct {
	LogLevel  string `env:"IMAGEGEN_LOG_LEVEL,LOG_LEVEL" default:"info" enum:"error,warn,info,debug,trace" help:"Set the level of logs to output [${enum}]"`
	LogFormat string `env:"IMAGEGEN_LOG_FORMAT,LOG_FORMAT" default:"console" enum:"console,json" help:"Set the format of logs to output [${enum}]"`
}
