// Package googletts synthesizes speech with Google Cloud Text-to-Speech.
package googletts
