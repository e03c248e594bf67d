/*
 * Nuts esign
 * Copyright (C) 2020. Nuts community
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package test

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	testIo "github.com/nuts-foundation/nuts-go-test/io"
)

// DocumentName is the file name of the document in testdata
const DocumentName = "letter_of_intent.pdf"

// Document copies the testdata document into a new temporary directory and returns its path
func Document(t *testing.T) string {
	_, file, _, _ := runtime.Caller(0)
	src := filepath.Join(filepath.Dir(file), "..", "testdata", DocumentName)
	dst := filepath.Join(testIo.TestDirectory(t), DocumentName)
	if err := CopyFile(src, dst); err != nil {
		t.Fatal(err)
	}
	return dst
}

func CopyFile(src string, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)

	return err
}
