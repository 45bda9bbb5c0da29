/*
Copyright © 2026 the RxCalc authors.
This file is part of RxCalc.

RxCalc is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

RxCalc is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with RxCalc.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command rxcalcweb serves the RxCalc JSON API.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rxcalc/rxcalc/rxcalcutil"
	"github.com/sirupsen/logrus"
)

var logger *logrus.Logger

func init() {
	logger = logrus.StandardLogger()
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	})
}

var config = flag.String("config", "example_config.toml", "Path to the configuration file")

func main() {
	flag.Parse()

	f, err := os.Open(os.ExpandEnv(*config))
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	c := rxcalcutil.ServerConfig{Address: ":8080", CacheSize: 1000, LogLevel: "info"}
	if _, err = toml.DecodeReader(f, &c); err != nil {
		log.Fatal(err)
	}
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	logger.SetLevel(level)

	s := rxcalcutil.NewServer(c.CacheSize)
	s.Log = logger

	logger.Infof("listening on http://%s", c.Address)
	logger.Fatal(c.HTTPServer(s).ListenAndServe())
}
