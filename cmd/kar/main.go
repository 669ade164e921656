// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command kar packs a directory into a kar archive, lists one or
// extracts it.
package main

import (
	"errors"
	"flag"
	"os"
	"os/user"
	"time"

	"github.com/devblok/shed/utility/kar"
	log "github.com/sirupsen/logrus"
)

func init() {
	currentUserName = "unknown"
	if u, err := user.Current(); err == nil {
		currentUserName = u.Username
	}
}

var (
	currentUserName string
	author          = flag.String("author", "", "Set the author of the package when compressing, current user if empty")
	version         = flag.Int64("version", 1, "Archive version number to create it with")
	extract         = flag.String("e", "", "Extract the file given")
	compress        = flag.String("c", "", "Compress the given folder")
	list            = flag.String("l", "", "List the files of the archive given")
	dstFile         = flag.String("f", "out.kar", "Destination file when compressing")
	dstDir          = flag.String("d", ".", "Destination directory when extracting")
	silent          = flag.Bool("s", false, "Silent")
)

func main() {
	flag.Parse()
	if *silent {
		log.SetLevel(log.WarnLevel)
	}

	ops := 0
	for _, op := range []string{*extract, *compress, *list} {
		if op != "" {
			ops++
		}
	}
	switch {
	case ops == 0:
		flag.PrintDefaults()
		return
	case ops > 1:
		log.Fatal(errors.New("only one operation at a time"))
	}

	var err error
	switch {
	case *compress != "":
		err = compressFiles()
	case *extract != "":
		err = extractFiles()
	case *list != "":
		err = listFiles()
	}
	if err != nil {
		log.Fatal(err)
	}
}

func compressFiles() error {
	if _, err := os.Stat(*dstFile); err == nil {
		return errors.New("destination file exists, will not overwrite")
	}

	name := *author
	if name == "" {
		name = currentUserName
	}

	dst, err := os.Create(*dstFile)
	if err != nil {
		return err
	}
	defer dst.Close()

	n, err := pack(*compress, dst, kar.Header{
		Author:      name,
		DateCreated: time.Now().Unix(),
		Version:     *version,
	})
	if err != nil {
		os.Remove(*dstFile)
		return err
	}
	log.WithFields(log.Fields{"file": *dstFile, "bytes": n}).Info("archive written")
	return dst.Close()
}

func extractFiles() error {
	a, err := kar.OpenFile(*extract)
	if err != nil {
		return err
	}
	defer a.Close()
	return unpack(a, *dstDir)
}

func listFiles() error {
	a, err := kar.OpenFile(*list)
	if err != nil {
		return err
	}
	defer a.Close()

	h := a.Header()
	log.WithFields(log.Fields{
		"author":  h.Author,
		"version": h.Version,
		"created": time.Unix(h.DateCreated, 0).Format(time.RFC3339),
	}).Info(*list)
	for _, name := range a.Files() {
		e, _ := h.Lookup(name)
		log.WithFields(log.Fields{"size": e.Size, "compressed": e.CompressedSize}).Info(name)
	}
	return nil
}
