package main

import (
	"flag"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/kuberlab/mldeploy/pkg/deploy"
	"github.com/kuberlab/mldeploy/pkg/errors"
	"github.com/kuberlab/mldeploy/pkg/platform"
	"github.com/kuberlab/mldeploy/pkg/utils"
	"github.com/kuberlab/mldeploy/pkg/vcs"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	configPath := flag.String("config", "", "Path to the configuration file (defaults to $"+utils.ConfPath+")")
	filePath := flag.String("file", "", "Path to the deploy file")
	deploymentID := flag.String("update", "", "Update the given deployment instead of creating a new one")
	commitSHA := flag.String("commit", "", "Use this commit for the update, nothing is committed")
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "-file is required")
		flag.Usage()
		os.Exit(2)
	}

	conf, err := utils.LoadConfiguration(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err = utils.SetupLogging(conf.Log.Level, conf.Log.Format); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err = conf.Validate(); err != nil {
		logrus.Errorf("Invalid configuration: %v", err)
		utils.LogExit(2)
	}
	logrus.Debugf("Configuration: %v", conf)

	dep, err := run(conf, *filePath, *deploymentID, *commitSHA)
	if err != nil {
		logrus.Error(err)
		utils.LogExit(exitStatus(err))
	}
	data, err := json.MarshalIndent(dep, "", "  ")
	if err != nil {
		logrus.Error(err)
		utils.LogExit(1)
	}
	fmt.Println(string(data))
}

func run(conf *utils.Configuration, filePath, deploymentID, commitSHA string) (*platform.Deployment, error) {
	file, err := deploy.ReadDeployFile(filePath)
	if err != nil {
		return nil, err
	}
	if conf.ContractPath != "" && file.ContractPath == "" {
		file.ContractPath = conf.ContractPath
	}

	repo, err := vcs.Open(conf.RepositoryPath, vcs.Options{
		RemoteName:            conf.Git.Remote,
		SSHKeyPath:            conf.Git.SSHKeyPath,
		SSHKeyPassphrase:      conf.Git.SSHKeyPassphrase,
		KnownHostsPath:        conf.Git.KnownHostsPath,
		InsecureIgnoreHostKey: conf.Git.InsecureIgnoreHostKey,
		Username:              conf.Git.Username,
		Password:              conf.Git.Password,
		AuthorName:            conf.Git.AuthorName,
		AuthorEmail:           conf.Git.AuthorEmail,
	})
	if err != nil {
		return nil, err
	}
	client, err := platform.NewClient(conf.Host, &platform.AuthOpts{
		AccessKey: conf.AccessKey,
		SecretKey: conf.SecretKey,
		Token:     conf.Token,
		Insecure:  conf.Insecure,
		Timeout:   conf.Timeout,
	})
	if err != nil {
		return nil, err
	}
	ws, err := client.GetWorkspace(conf.WorkspaceID)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Using workspace %v", ws.Name)

	d := deploy.NewDeployer(deploy.Config{WorkspaceID: conf.WorkspaceID}, repo, client)
	if deploymentID != "" {
		opts, err := file.UpdateOptions(deploymentID, commitSHA)
		if err != nil {
			return nil, err
		}
		return d.Update(opts)
	}
	opts, err := file.Options()
	if err != nil {
		return nil, err
	}
	return d.Deploy(opts)
}

func exitStatus(err error) int {
	if e, ok := err.(*errors.Error); ok && e.HttpStatus() < 500 {
		return 2
	}
	return 1
}
