//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Records the demo animation into keyframe.txt and plays it back.
func (Run) Play() error {
	mg.Deps(Build.Binary)

	fmt.Println("Recording demo...")
	if _, err := executeCmd("bin/keyframer", withArgs("demo", "--out", "keyframe.txt"), withStream()); err != nil {
		return err
	}
	if _, err := executeCmd("bin/keyframer", withArgs("play", "keyframe.txt"), withStream()); err != nil {
		return err
	}
	return nil
}

// Prints a summary of keyframe.txt.
func (Run) Inspect() error {
	mg.Deps(Build.Binary)
	_, err := executeCmd("bin/keyframer", withArgs("inspect", "keyframe.txt"), withStream())
	return err
}
