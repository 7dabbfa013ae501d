// Package preprocess turns a raw transcript into one that is ready for voice
// assignment: every segment gets a speaker (carried forward from the previous
// segment when missing) and a host or guest role from the host roster.
package preprocess
