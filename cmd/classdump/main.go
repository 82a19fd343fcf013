// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/saferwall/jclass"
)

var (
	verbose bool
	strict  bool
	pool    bool
	fields  bool
	methods bool
	attrs   bool
	all     bool
)

func prettyPrint(buff []byte) string {
	var prettyJSON bytes.Buffer
	err := json.Indent(&prettyJSON, buff, "", "\t")
	if err != nil {
		log.Println("JSON parse error: ", err)
		return string(buff)
	}

	return prettyJSON.String()
}

func isDirectory(path string) bool {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fileInfo.IsDir()
}

func parseClass(filename string, cmd *cobra.Command) error {
	if verbose {
		log.Printf("Processing filename %s", filename)
	}

	cf, err := jclass.New(filename, &jclass.Options{Strict: strict})
	if err != nil {
		log.Printf("Error while opening file: %s, reason: %s", filename, err)
		return err
	}
	defer cf.Close()

	err = cf.Parse()
	if err != nil {
		log.Printf("Error while parsing file: %s, reason: %s", filename, err)
		return err
	}

	wantPool, _ := cmd.Flags().GetBool("pool")
	if wantPool {
		constantPool, _ := json.Marshal(cf.ConstantPool)
		fmt.Println(prettyPrint(constantPool))
	}

	wantFields, _ := cmd.Flags().GetBool("fields")
	if wantFields {
		classFields, _ := json.Marshal(cf.Fields)
		fmt.Println(prettyPrint(classFields))
	}

	wantMethods, _ := cmd.Flags().GetBool("methods")
	if wantMethods {
		classMethods, _ := json.Marshal(cf.Methods)
		fmt.Println(prettyPrint(classMethods))
	}

	wantAttrs, _ := cmd.Flags().GetBool("attributes")
	if wantAttrs {
		classAttrs, _ := json.Marshal(cf.Attributes)
		fmt.Println(prettyPrint(classAttrs))
	}

	wantAll, _ := cmd.Flags().GetBool("all")
	if wantAll {
		classFile, _ := json.Marshal(cf)
		fmt.Println(prettyPrint(classFile))
	}

	if verbose {
		fmt.Printf("%s: major %d, flags [%s]\n", filename, cf.MajorVersion,
			cf.AccessFlags)
	}
	return nil
}

func dump(cmd *cobra.Command, args []string) {
	failed := false
	for _, filePath := range args {

		// filePath points to a file.
		if !isDirectory(filePath) {
			if err := parseClass(filePath, cmd); err != nil {
				failed = true
			}
			continue
		}

		// filePath points to a directory, walk recursively
		// through all class files.
		fileList := []string{}
		filepath.Walk(filePath, func(path string, f os.FileInfo, err error) error {
			if !isDirectory(path) {
				fileList = append(fileList, path)
			}
			return nil
		})
		classFiles := lo.Filter(fileList, func(path string, _ int) bool {
			return strings.HasSuffix(path, ".class")
		})

		for _, file := range classFiles {
			if err := parseClass(file, cmd); err != nil {
				failed = true
			}
		}
	}

	if failed {
		os.Exit(1)
	}
}

func main() {

	var rootCmd = &cobra.Command{
		Use:   "classdump",
		Short: "A Java class file parser",
		Long:  "A JVM class-file parser built for speed and malware-analysis in mind by Saferwall",
		Run: func(cmd *cobra.Command, args []string) {
		},
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Long:  "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Print("You are using version 0.0.1")
		},
	}

	var dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Dumps the class file",
		Long:  "Dumps interesting structures of the Java class file",
		Args:  cobra.MinimumNArgs(1),
		Run:   dump,
	}

	// Init root command.
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(dumpCmd)

	// Init flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&strict, "strict", "", false,
		"fail on unknown attribute names")
	dumpCmd.Flags().BoolVarP(&pool, "pool", "", false, "Dump constant pool")
	dumpCmd.Flags().BoolVarP(&fields, "fields", "", false, "Dump fields")
	dumpCmd.Flags().BoolVarP(&methods, "methods", "", false, "Dump methods")
	dumpCmd.Flags().BoolVarP(&attrs, "attributes", "", false, "Dump class level attributes")
	dumpCmd.Flags().BoolVarP(&all, "all", "", false, "Dump everything")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

}
