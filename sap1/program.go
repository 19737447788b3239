// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sap1

// DefaultProgram is the source of the demo program loaded when no other
// program is given.
//
const DefaultProgram = `; add two numbers and display the result
start:	LDA x
	LDB y
	ADD
	OUT
	HLT

x:	.byte 14
y:	.byte 28
`

// DefaultImage returns the assembled DefaultProgram.
//
func DefaultImage() []byte {
	img, err := AssembleString(DefaultProgram)
	if err != nil {
		panic(err)
	}
	return img
}
