package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/trezcool/alama/core/report"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	svc *report.Service
	out io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  encode -file FILE           - encode a JSON course file into a shareable payload")
	fmt.Println("  decode -data PAYLOAD        - decode a payload and print the computed report")
	fmt.Println("  decode -file FILE           - same, reading the payload from a file")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	encodeCmd := flag.NewFlagSet("encode", flag.ExitOnError)
	encodeFile := encodeCmd.String("file", "", "Path to a JSON (or near-JSON) course file.")

	decodeCmd := flag.NewFlagSet("decode", flag.ExitOnError)
	decodeData := decodeCmd.String("data", "", "The encoded payload string.")
	decodeFile := decodeCmd.String("file", "", "Path to a file holding the encoded payload.")

	switch args[1] {
	case "encode":
		if err := encodeCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *encodeFile == "" {
			encodeCmd.Usage()
			return errHelp
		}
		return cli.encode(*encodeFile)
	case "decode":
		if err := decodeCmd.Parse(args[2:]); err != nil {
			return err
		}
		data := *decodeData
		if data == "" && *decodeFile != "" {
			raw, err := ioutil.ReadFile(*decodeFile)
			if err != nil {
				return err
			}
			data = string(raw)
		}
		if data == "" {
			decodeCmd.Usage()
			return errHelp
		}
		return cli.decode(data)
	default:
		cli.printUsage()
		return errHelp
	}
}

// encode runs the course file through the same repair pipeline the API uses,
// so near-JSON exports encode fine too.
func (cli *commandLine) encode(path string) error {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	records, err := report.ParseCourses(string(raw))
	if err != nil {
		return err
	}
	courses := report.Normalize(records)
	if len(courses) == 0 {
		return report.ErrNoValidCourses
	}
	encoded, err := cli.svc.Encode(courses, nil)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cli.out, encoded)
	return err
}

func (cli *commandLine) decode(data string) error {
	rep, err := cli.svc.Decode(data)
	if err != nil {
		return err
	}
	rep.CGPA = report.Round2(rep.CGPA)
	rep.SemesterMean = report.Round2(rep.SemesterMean)
	for i := range rep.Semesters {
		rep.Semesters[i].GPA = report.Round2(rep.Semesters[i].GPA)
	}
	pretty, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cli.out, string(pretty))
	return err
}
