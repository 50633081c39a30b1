package fsutil

const fdDir = "/proc/self/fd"
