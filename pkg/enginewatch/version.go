package enginewatch

// Version is the current version of the enginewatch library.
const Version = "1.0.0"
