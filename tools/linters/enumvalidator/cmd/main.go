package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/BitmanAlan/xiaohongshu/tools/linters/enumvalidator"
)

func main() {
	singlechecker.Main(enumvalidator.Analyzer)
}
