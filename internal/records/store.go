// Package records keeps a YAML log of the deployments made on each network.
package records

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/cswap-network/xswap-deployer/configs"
	"github.com/cswap-network/xswap-deployer/internal/contracts"
	"github.com/cswap-network/xswap-deployer/internal/filesystem"
	"github.com/cswap-network/xswap-deployer/internal/logger"
	"gopkg.in/yaml.v3"
)

var ErrRecordNotFound = errors.New("deployment record not found")

type (
	Record struct {
		Contract   contracts.Name `yaml:"contract"`
		Address    string         `yaml:"address"`
		TxHash     string         `yaml:"tx-hash"`
		Block      uint64         `yaml:"block"`
		Deployer   string         `yaml:"deployer"`
		Arguments  []string       `yaml:"arguments"`
		Verified   bool           `yaml:"verified"`
		DeployedAt time.Time      `yaml:"deployed-at"`
	}

	File struct {
		Network     configs.NetworkName `yaml:"network"`
		ChainID     uint64              `yaml:"chain-id"`
		Deployments []Record            `yaml:"deployments"`
	}

	Store struct {
		dir    string
		reader filesystem.Reader
		writer filesystem.Writer
		logger *slog.Logger
	}
)

func NewStore(dir string, reader filesystem.Reader, writer filesystem.Writer) *Store {
	return &Store{
		dir:    dir,
		reader: reader,
		writer: writer,
		logger: logger.Named("records"),
	}
}

func (s *Store) path(network configs.NetworkName) string {
	return filepath.Join(s.dir, string(network)+".yaml")
}

// Load reads the records of network. A network without deployments yields an empty file.
func (s *Store) Load(network configs.NetworkName) (File, error) {
	data, err := s.reader.ReadBytes(s.path(network))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return File{Network: network}, nil
		}
		return File{}, fmt.Errorf("failed to read deployment records: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return File{}, fmt.Errorf("failed to parse deployment records %s: %w", s.path(network), err)
	}
	file.Network = network

	return file, nil
}

// Append adds a deployment to the records of network.
func (s *Store) Append(network configs.NetworkName, chainID uint64, record Record) error {
	file, err := s.Load(network)
	if err != nil {
		return err
	}

	file.ChainID = chainID
	file.Deployments = append(file.Deployments, record)

	if err := s.save(file); err != nil {
		return err
	}

	s.logger.
		With("network", network).
		With("contract", record.Contract).
		With("address", record.Address).
		Info("deployment recorded")

	return nil
}

// Latest returns the most recent deployment of contract on network.
func (s *Store) Latest(network configs.NetworkName, contract contracts.Name) (Record, error) {
	file, err := s.Load(network)
	if err != nil {
		return Record{}, err
	}

	for i := len(file.Deployments) - 1; i >= 0; i-- {
		if file.Deployments[i].Contract == contract {
			return file.Deployments[i], nil
		}
	}

	return Record{}, fmt.Errorf("%w: %s on %s", ErrRecordNotFound, contract, network)
}

// Find returns the deployment recorded at address on network.
func (s *Store) Find(network configs.NetworkName, address string) (Record, error) {
	file, err := s.Load(network)
	if err != nil {
		return Record{}, err
	}

	for i := len(file.Deployments) - 1; i >= 0; i-- {
		if strings.EqualFold(file.Deployments[i].Address, address) {
			return file.Deployments[i], nil
		}
	}

	return Record{}, fmt.Errorf("%w: %s on %s", ErrRecordNotFound, address, network)
}

// MarkVerified flags every record at address as verified. Addresses without a record
// are ignored since they were deployed elsewhere.
func (s *Store) MarkVerified(network configs.NetworkName, address string) error {
	file, err := s.Load(network)
	if err != nil {
		return err
	}

	changed := false
	for i := range file.Deployments {
		if strings.EqualFold(file.Deployments[i].Address, address) && !file.Deployments[i].Verified {
			file.Deployments[i].Verified = true
			changed = true
		}
	}
	if !changed {
		return nil
	}

	return s.save(file)
}

func (s *Store) save(file File) error {
	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("could not marshal deployment records. Err: '%w'", err)
	}

	if err := s.writer.WriteBytes(s.path(file.Network), data); err != nil {
		return fmt.Errorf("could not write deployment records. Err: '%w'", err)
	}

	return nil
}
