// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
The check tool performs tag lookups on full music collections (iTunes or directory tree of files).
*/
package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dhowden/itl"
	"github.com/dhowden/tag"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
)

func decodeLocation(l string) (string, error) {
	u, err := url.ParseRequestURI(l)
	if err != nil {
		return "", err
	}
	// Annoyingly this doesn't replace &#38; (&)
	path := strings.Replace(u.Path, "&#38;", "&", -1)
	return path, nil
}

func main() {
	app := &cli.App{
		Name:  "check",
		Usage: "check tag decoding across an iTunes library or a directory of audio files",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "itl-xml", Usage: "iTunes Library XML path"},
			&cli.StringFlag{Name: "path", Usage: "path to directory containing audio files"},
			&cli.BoolFlag{Name: "sum", Usage: "compute the checksum of the audio file (doesn't work for .flac or .ogg yet)"},
			&cli.IntFlag{Name: "concurrency", Value: 4, Usage: "number of files to process concurrently"},
			&cli.StringFlag{Name: "config", Usage: "optional config file providing defaults for the flags above"},
			&cli.BoolFlag{Name: "verbose", Usage: "log every file processed, not just failures"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("check failed")
	}
}

func run(c *cli.Context) error {
	if cfgFile := c.String("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %v: %w", cfgFile, err)
		}
	}
	viper.SetDefault("concurrency", 4)

	itlXML := firstNonEmpty(c.String("itl-xml"), viper.GetString("itl-xml"))
	path := firstNonEmpty(c.String("path"), viper.GetString("path"))
	sum := c.Bool("sum") || viper.GetBool("sum")
	concurrency := c.Int("concurrency")
	if !c.IsSet("concurrency") && viper.IsSet("concurrency") {
		concurrency = viper.GetInt("concurrency")
	}
	if concurrency < 1 {
		concurrency = 1
	}

	if c.Bool("verbose") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if itlXML == "" && path == "" || itlXML != "" && path != "" {
		return cli.Exit("you must specify exactly one of -itl-xml or -path", 1)
	}

	var paths <-chan string
	if itlXML != "" {
		var err error
		paths, err = walkLibrary(itlXML)
		if err != nil {
			return err
		}
	} else {
		paths = walkPath(path)
	}

	p := &processor{
		sum:            sum,
		decodingErrors: make(map[string]int),
		hashErrors:     make(map[string]int),
		hashes:         make(map[string]int),
	}
	p.run(paths, concurrency)

	fmt.Print(p)
	return nil
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}

func walkPath(root string) <-chan string {
	ch := make(chan string)
	fn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ch <- path
		return nil
	}

	go func() {
		err := filepath.Walk(root, fn)
		if err != nil {
			log.Error().Err(err).Str("path", root).Msg("walking directory")
		}
		close(ch)
	}()
	return ch
}

func walkLibrary(path string) (<-chan string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	l, err := itl.ReadFromXML(f)
	if err != nil {
		return nil, err
	}

	paths := make(chan string)
	go func() {
		for _, t := range l.Tracks {
			loc, err := decodeLocation(t.Location)
			if err != nil {
				log.Error().Err(err).Str("location", t.Location).Msg("decoding iTunes library location")
				continue
			}
			paths <- loc
		}
		close(paths)
	}()
	return paths, nil
}

// processor accumulates per-file decoding/hashing results across a pool of
// worker goroutines draining the same paths channel; mu guards the maps
// below since multiple workers write to them concurrently.
type processor struct {
	sum bool

	mu             sync.Mutex
	decodingErrors map[string]int
	hashErrors     map[string]int
	hashes         map[string]int
}

func (p *processor) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	result := ""
	for k, v := range p.decodingErrors {
		result += fmt.Sprintf("%v : %v\n", k, v)
	}
	for k, v := range p.hashErrors {
		result += fmt.Sprintf("%v : %v\n", k, v)
	}
	for k, v := range p.hashes {
		if v > 1 {
			result += fmt.Sprintf("%v : %v\n", k, v)
		}
	}
	return result
}

// run fans the paths channel out across n worker goroutines and blocks
// until every path has been processed.
func (p *processor) run(ch <-chan string, n int) {
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			for path := range ch {
				p.processOne(path)
			}
		}()
	}
	wg.Wait()
}

func (p *processor) processOne(path string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("path", path).Msg("panic processing file")
			panic(r)
		}
	}()

	tf, err := os.Open(path)
	if err != nil {
		p.countError(p.decodingErrors, "error opening file")
		return
	}
	defer tf.Close()

	if _, _, err := tag.Identify(tf); err != nil {
		log.Debug().Err(err).Str("path", path).Msg("identify")
	}

	if _, err := tag.ReadFrom(tf); err != nil {
		// A header-not-found error just means this file carries no tag of
		// that kind; anything else is a tag that's present but corrupt, and
		// is worth a louder log line.
		if errors.Is(err, tag.ErrHeaderNotFound) {
			log.Debug().Err(err).Str("path", path).Msg("no tag header found")
		} else {
			log.Warn().Err(err).Str("path", path).Msg("read tags")
		}
		p.countError(p.decodingErrors, err.Error())
	}

	if p.sum {
		if _, err := tf.Seek(0, os.SEEK_SET); err != nil {
			log.Error().Err(err).Str("path", path).Msg("seeking back to start for checksum")
			return
		}

		h, err := tag.Sum(tf)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("checksum")
			p.countError(p.hashErrors, err.Error())
			return
		}

		p.mu.Lock()
		p.hashes[h]++
		p.mu.Unlock()
	}
}

func (p *processor) countError(m map[string]int, key string) {
	p.mu.Lock()
	m[key]++
	p.mu.Unlock()
}
