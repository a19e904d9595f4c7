// Package utils exposes reusable helpers consumed by the shellrun commands.
//
// It houses ConfigurationLoader and LoggerFactory, which integrate Viper,
// environment variables, and zap logging for the CLI, plus FlushingWriter for
// console sinks.
package utils
