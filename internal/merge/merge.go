// Package merge concatenates CSV exports that share an identical header.
package merge

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
)

type Result struct {
	Files int
	Rows  int
}

// Merge concatenates every CSV matched by inputGlob into outputPath. Files
// are processed in sorted path order; the first file's header becomes the
// output header and every later file must match it exactly.
func Merge(inputGlob, outputPath string) (Result, error) {
	files, err := filepath.Glob(inputGlob)
	if err != nil {
		return Result{}, err
	}
	if len(files) == 0 {
		return Result{}, fmt.Errorf("no files matched: %s", inputGlob)
	}
	sort.Strings(files)

	out, err := os.Create(outputPath)
	if err != nil {
		return Result{}, err
	}
	defer out.Close()

	writer := csv.NewWriter(out)
	var header []string
	total := 0

	for _, path := range files {
		rows, err := appendFile(writer, path, &header)
		if err != nil {
			return Result{}, err
		}
		total += rows
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return Result{}, err
	}
	return Result{Files: len(files), Rows: total}, nil
}

func appendFile(writer *csv.Writer, path string, header *[]string) (int, error) {
	in, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	reader := csv.NewReader(in)
	fileHeader, err := reader.Read()
	if err == io.EOF {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	if *header == nil {
		*header = fileHeader
		if err := writer.Write(fileHeader); err != nil {
			return 0, err
		}
	} else if !reflect.DeepEqual(fileHeader, *header) {
		return 0, fmt.Errorf("header mismatch in %s", path)
	}

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, err
		}
		if err := writer.Write(record); err != nil {
			return rows, err
		}
		rows++
	}
	return rows, nil
}

// Preview prints the header and the first n data rows of a CSV file.
func Preview(w io.Writer, path string, n int) error {
	if n <= 0 {
		return nil
	}

	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	reader := csv.NewReader(in)
	for i := 0; i <= n; i++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(w, record)
	}
	return nil
}
