// Package fileutil holds small filesystem helpers shared by the pipeline stages.
package fileutil
