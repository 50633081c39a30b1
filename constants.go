package fsutil

import "os"

const (
	DefaultDirMode     os.FileMode = 0777 //umask applies
	DefaultFileMode    os.FileMode = 0644
	DefaultConcurrency             = 8
	DefaultLogLevel                = "info"
)

var defaultConfig = Config{
	DirMode:     DefaultDirMode,
	FileMode:    DefaultFileMode,
	Concurrency: DefaultConcurrency,
	LogLevel:    DefaultLogLevel,
}
