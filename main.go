package main

import (
	"fmt"
	"os"

	"github.com/cheerioskun/patchninja/internal/cmd"
	"github.com/cheerioskun/patchninja/internal/utils"
	"github.com/cheerioskun/patchninja/ui/review"
)

func main() {
	err := cmd.Execute()
	utils.GetLogger().Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, review.ErrorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
