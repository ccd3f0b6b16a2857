package constants

// Version of the library.
const Version = "1.0.0"

// DefaultChunkSize is the read chunk size of the decryption pipeline.
// The pipeline is correct for any positive chunk size; this value only
// tunes throughput. Tests exercise sizes down to a single byte.
const DefaultChunkSize = 64 * 1024
