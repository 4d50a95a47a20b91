package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func main() {
	root := &cobra.Command{
		Use:           "controversy_radar",
		Short:         "Weekly controversy scan for a portfolio of companies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newShowCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// addConfigFlag 所有子命令共用的配置文件参数
func addConfigFlag(fs *pflag.FlagSet, p *string) {
	fs.StringVarP(p, "config", "c", "configs/config.yaml", "配置文件路径")
}
