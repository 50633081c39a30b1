package fsutil

const fdDir = "/dev/fd"
