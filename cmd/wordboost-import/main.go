// Copyright 2025 The WordBoost Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command wordboost-import seeds a phrase database with the words of a
// hunspell dictionary, each stored with count 0 under its folded spelling.
//
//	wordboost-import -u user.db -d mr_IN.dic -ime NoIME
//
// The database is looked up under ~/.local/share/wordboost and must exist.
// The word list is looked up under -dictdir.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/wordboost/internal/logger"
	"github.com/bastiangx/wordboost/pkg/fold"
	"github.com/bastiangx/wordboost/pkg/importer"
	"github.com/bastiangx/wordboost/pkg/store"
	"github.com/bastiangx/wordboost/pkg/translit"
	"github.com/charmbracelet/log"
)

func main() {
	var userDB, dictName string
	flag.StringVar(&userDB, "u", "", "User database name")
	flag.StringVar(&userDB, "userdictionary", "", "User database name")
	flag.StringVar(&dictName, "d", "", "Hunspell dictionary file name")
	flag.StringVar(&dictName, "hunspelldict", "", "Hunspell dictionary file name")
	dictDir := flag.String("dictdir", importer.DefaultDictionaryDir, "Directory holding hunspell dictionaries")
	method := flag.String("ime", translit.DirectName, "Input method each word is passed through")
	debugMode := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	logger.Setup(*debugMode)

	if userDB == "" || dictName == "" {
		fmt.Fprintln(os.Stderr, "both --userdictionary and --hunspelldict are required")
		flag.Usage()
		os.Exit(2)
	}

	dbPath := importer.UserDBPath(userDB)
	if err := importer.CheckExists("user database", dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "%v.\n", err)
		os.Exit(1)
	}
	dicPath := importer.DictionaryPath(*dictDir, dictName)
	if err := importer.CheckExists("hunspell dictionary", dicPath); err != nil {
		fmt.Fprintf(os.Stderr, "%v.\n", err)
		os.Exit(1)
	}

	m, err := translit.New(*method)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	name := strings.TrimSuffix(filepath.Base(dicPath), filepath.Ext(dicPath))
	table, ok := fold.Lookup(name)
	if !ok {
		log.Warnf("No accent table for %s, words are stored unfolded", name)
	}

	ctx := context.Background()
	st, err := store.OpenSQLite(ctx, dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", dbPath, err)
		os.Exit(1)
	}
	defer st.Close()

	n, err := importer.New(st, m, table).Import(ctx, dicPath)
	if err != nil {
		st.Close()
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	log.Infof("Imported %d words from %s into %s", n, dicPath, dbPath)
}
