// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/Netcracker/qubership-apihub-tcp-extractor/db"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/entities"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/exception"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/readers"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/services/cloud_storage"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/services/service"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/sinks"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/view"
	"github.com/google/gopacket/layers"
	"github.com/netcracker/qubership-core-lib-go/v3/configloader"
	log "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"gopkg.in/natefinch/lumberjack.v2"
)

// init
// initialises logging
func init() {
	basePath := os.Getenv("BASE_PATH")
	if basePath == "" {
		basePath = "."
	}
	mw := io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename: path.Join(basePath, "logs", "tcp_extractor.log"),
		MaxSize:  10, // megabytes
	})
	log.SetFormatter(&prefixed.TextFormatter{
		DisableColors:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
	})
	logLevel, err := log.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = log.InfoLevel
	}
	log.SetLevel(logLevel)
	log.SetOutput(mw)
}

// init
// initialises configuration properties
func init() {
	sourceParams := configloader.YamlPropertySourceParams{ConfigFilePath: "config.yaml"}
	configloader.Init(configloader.BasePropertySources(sourceParams)...)
}

// configLookup
// properties from config.yaml and the other configloader sources
func configLookup(key string) (string, bool) {
	k := configloader.GetKoanf()
	if k == nil || !k.Exists(key) {
		return view.EmptyString, false
	}
	return k.String(key), true
}

type options struct {
	captureFile string
	outputFile  string
	format      string
	workers     int
	strictMagic bool
	lengthField string
	clamp       bool
	headerOnly  bool
	countOnly   bool
	logLevel    string
}

func parseOptions(args []string) (options, error) {
	opts := options{}
	fs := flag.NewFlagSet("tcp-extractor", flag.ContinueOnError)
	fs.StringVar(&opts.captureFile, "pcap", view.EmptyString, "capture file to decode (.pcap or .pcap.gz)")
	fs.StringVar(&opts.outputFile, "save", view.EmptyString, "text file receiving one line per record")
	fs.StringVar(&opts.format, "format", view.EmptyString, "payload rendering: quoted, hex or raw")
	fs.IntVar(&opts.workers, "workers", -1, "parallel decode workers, 0 or 1 decodes sequentially")
	fs.BoolVar(&opts.strictMagic, "strict-magic", false, "reject unknown magic numbers")
	fs.StringVar(&opts.lengthField, "length-field", view.EmptyString, "record length field: original or included")
	fs.BoolVar(&opts.clamp, "clamp", false, "clamp payloads cut by the snap length")
	fs.BoolVar(&opts.headerOnly, "header", false, "print the capture file header and exit")
	fs.BoolVar(&opts.countOnly, "count", false, "print the packet count and exit")
	fs.StringVar(&opts.logLevel, "log-level", view.EmptyString, "A logging level: (trace, debug, info, warning, error, fatal, panic)")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	// positional form: <capture> <output>
	if opts.captureFile == view.EmptyString {
		opts.captureFile = fs.Arg(0)
	}
	if opts.outputFile == view.EmptyString && fs.NArg() > 1 {
		opts.outputFile = fs.Arg(1)
	}
	missing := make([]string, 0)
	if opts.captureFile == view.EmptyString {
		missing = append(missing, "pcap")
	}
	if opts.outputFile == view.EmptyString && !opts.headerOnly && !opts.countOnly {
		missing = append(missing, "save")
	}
	if len(missing) > 0 {
		return opts, exception.NewRequiredParamsMissing(missing)
	}
	return opts, nil
}

// applyOptions
// command line values override the environment
func applyOptions(cfg *entities.ExtractorConfig, opts options) error {
	if opts.format != view.EmptyString {
		format, err := entities.ParseOutputFormat(opts.format)
		if err != nil {
			return exception.NewInvalidParameter("format", opts.format, err.Error())
		}
		cfg.OutputFormat = format
	}
	if opts.workers >= 0 {
		cfg.Workers = opts.workers
	}
	if opts.lengthField != view.EmptyString {
		lengthField, err := entities.ParseRecordLengthField(opts.lengthField)
		if err != nil {
			return exception.NewInvalidParameter("length-field", opts.lengthField, err.Error())
		}
		cfg.Decoder.LengthField = lengthField
	}
	cfg.Decoder.StrictMagic = cfg.Decoder.StrictMagic || opts.strictMagic
	cfg.Decoder.ClampTruncated = cfg.Decoder.ClampTruncated || opts.clamp
	return nil
}

func linkTypeName(linkType uint32) string {
	if linkType > 0xff {
		return fmt.Sprintf("LinkType(%d)", linkType)
	}
	return layers.LinkType(linkType).String()
}

func describeHeader(out io.Writer, header entities.CaptureFileHeader) {
	_, _ = fmt.Fprintf(out, "%s (%s)\n", header.String(), linkTypeName(header.LinkType))
}

// openSinks
// text output plus the optional database and key-value stores
func openSinks(cfg entities.ExtractorConfig, header entities.CaptureFileHeader) (sinks.Sink, error) {
	text, err := sinks.NewTextSink(cfg.OutputFile, cfg.OutputFormat)
	if err != nil {
		return nil, err
	}
	all := []sinks.Sink{text}
	if cfg.Db.IsActive() {
		conn, err := db.MakeConnection(db.AttrsFromConfig(cfg.Db))
		if err == nil {
			var sqlSink sinks.Sink
			sqlSink, err = sinks.NewSqlSink(conn, cfg.InstanceId, cfg.CaptureFile, header)
			if err == nil {
				all = append(all, sqlSink)
				log.Infof("records of run %s are stored in %s database %s", cfg.InstanceId, cfg.Db.Driver, cfg.Db.DbName)
			} else {
				_ = conn.Close()
			}
		}
		if err != nil {
			_ = sinks.NewMultiSink(all...).Close()
			return nil, err
		}
	}
	if cfg.KvDirectory != view.EmptyString {
		kv, err := sinks.NewKvSink(cfg.KvDirectory, cfg.InstanceId)
		if err != nil {
			_ = sinks.NewMultiSink(all...).Close()
			return nil, err
		}
		all = append(all, kv)
		log.Infof("records of run %s are stored in %s", cfg.InstanceId, path.Join(cfg.KvDirectory, cfg.InstanceId))
	}
	return sinks.NewMultiSink(all...), nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}
	if opts.logLevel != view.EmptyString {
		level, err := log.ParseLevel(opts.logLevel)
		if err != nil {
			return exception.NewInvalidParameter("log-level", opts.logLevel, err.Error())
		}
		log.SetLevel(level)
	}
	systemInfoService, err := service.NewSystemInfoService(configLookup)
	if err != nil {
		return err
	}
	cfg := systemInfoService.GetExtractorConfig(opts.captureFile, opts.outputFile)
	if err = applyOptions(&cfg, opts); err != nil {
		return err
	}

	started := time.Now()
	reader, err := readers.OpenCapture(cfg.CaptureFile, cfg.Decoder)
	if err != nil {
		return err
	}
	if opts.headerOnly {
		describeHeader(stdout, reader.Header())
		return nil
	}
	extractor := readers.NewExtractor(reader)
	if opts.countOnly {
		count, err := extractor.PacketCount()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(stdout, count)
		return nil
	}
	extraction, err := extractor.ExtractParallel(ctx, cfg.Workers)
	if err != nil {
		return err
	}

	sink, err := openSinks(cfg, reader.Header())
	if err != nil {
		return err
	}
	stats, err := sinks.WriteAll(extraction, sink)
	if cerr := sink.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Errorf("unable to write results for '%s'. Error: %v", cfg.CaptureFile, err)
		return err
	}
	log.Infof("'%s' -> '%s' in %v. %s", cfg.CaptureFile, cfg.OutputFile, time.Since(started), stats.String())

	if cfg.Storage.IsActive {
		storage := cloud_storage.NewCloudStorage(cfg.Storage)
		storage.StoreFile(cfg.OutputFile)
		if err = storage.Close(); err != nil {
			log.Errorf("unable to upload '%s'. Error: %v", cfg.OutputFile, err)
			return err
		}
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		log.Fatalf("tcp extractor failed: %v", err)
	}
}
