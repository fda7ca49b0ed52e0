package config

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"reflect"
	"sort"
	"strings"
	"sync"

	ghodss "github.com/ghodss/yaml"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"
)

var starPipeHomeDir string

const (
	MainDir            = ".starpipe"
	MainFileNamePrefix = "config"
	MainFileNameExt    = "yaml"
	MainFileFullName   = MainFileNamePrefix + "." + MainFileNameExt
)

// FileNotFoundError denotes failing to find configuration file.
type FileNotFoundError struct {
	name string
}

// Error returns the formatted configuration error.
func (f FileNotFoundError) Error() string {
	return fmt.Sprintf("config file %q not found", f.name)
}

type KeyNotFoundError struct {
	configFile string
	key        string
}

func (k KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %q not found in config file %q", k.key, k.configFile)
}

// File is a YAML document of settings keyed by their command-line flag names.
type File struct {
	Dirname      string
	FileName     string
	FilePrefix   string
	FileExt      string
	FullPath     string
	data         map[string]interface{}
	dataIsLoaded bool
	mu           sync.Mutex
}

// NewConfigFile returns the default config file in the starpipe home directory.
func NewConfigFile() (*File, error) {
	dir, err := getConfigHomeDir()
	if err != nil {
		return nil, err
	}
	return NewConfigFileWithDir(dir, MainFileFullName), nil
}

// NewConfigFileFromPath returns a config file at the given path.
func NewConfigFileFromPath(fullPath string) *File {
	return NewConfigFileWithDir(path.Dir(fullPath), path.Base(fullPath))
}

func NewConfigFileWithDir(dirName string, filename string) *File {
	c := &File{Dirname: dirName, FileName: filename}
	c.FullPath = path.Join(dirName, filename)
	c.FileExt = strings.TrimLeft(path.Ext(filename), ".")
	c.FilePrefix = strings.TrimSuffix(c.FileName, "."+c.FileExt)
	c.data = make(map[string]interface{})
	return c
}

// Exists returns true if the file is present on disk.
func (c *File) Exists() bool {
	_, err := os.Stat(c.FullPath)
	return err == nil
}

// Get will fetch the key from the config File into variable, out.
// Return an error if we can't find the key.
func (c *File) Get(key string, out interface{}) error {
	val := reflect.ValueOf(out)
	if val.Kind() != reflect.Ptr {
		return errors.New("out must be a pointer")
	}
	if err := c.ensureLoaded(); err != nil {
		return err
	}
	d, ok := c.data[key]
	if !ok { // if the key was not found...
		return KeyNotFoundError{c.FullPath, key}
	}
	return mapstructure.Decode(d, out)
}

// Decode copies every key into the mapstructure tagged struct out.
// A missing file leaves out untouched.
func (c *File) Decode(out interface{}) error {
	if err := c.ensureLoaded(); err != nil {
		return err
	}
	return mapstructure.Decode(c.data, out)
}

func (c *File) Set(key string, val interface{}) error {
	if err := c.ensureLoaded(); err != nil {
		return err
	}
	c.data[key] = val
	return c.save()
}

func (c *File) Delete(key string) error {
	if err := c.ensureLoaded(); err != nil {
		return err
	}
	if _, keyExists := c.data[key]; !keyExists {
		return KeyNotFoundError{c.FullPath, key}
	}
	delete(c.data, key)
	return c.save()
}

// GetAllKeys returns the keys in sorted order.
func (c *File) GetAllKeys() ([]string, error) {
	if err := c.ensureLoaded(); err != nil {
		return nil, err
	}
	retval := make([]string, 0, len(c.data))
	for k := range c.data {
		retval = append(retval, k)
	}
	sort.Strings(retval)
	return retval, nil
}

// WriteYAML replaces the whole file with the YAML rendering of in.
func (c *File) WriteYAML(in interface{}) error {
	b, err := yaml.Marshal(in)
	if err != nil {
		return fmt.Errorf("error marshalling data for config file %v: %v", c.FullPath, err)
	}
	if err = c.write(b); err != nil {
		return err
	}
	c.dataIsLoaded = false // reload on next access
	return nil
}

// ensureLoaded reads the file once. A missing file is treated as empty.
func (c *File) ensureLoaded() error {
	if c.dataIsLoaded {
		return nil
	}
	err := c.loadData()
	if err != nil && !errors.As(err, &FileNotFoundError{}) {
		return err
	}
	return nil
}

func (c *File) loadData() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := ioutil.ReadFile(c.FullPath)
	if os.IsNotExist(err) {
		c.dataIsLoaded = true
		return FileNotFoundError{c.FullPath}
	} else if err != nil {
		return err
	}
	data := make(map[string]interface{})
	// ghodss/yaml converts to JSON first so nested maps get string keys that mapstructure can decode.
	if err = ghodss.Unmarshal(b, &data); err != nil {
		return fmt.Errorf("error parsing config file %v: %w", c.FullPath, err)
	}
	c.data = data
	c.dataIsLoaded = true
	return nil
}

func (c *File) save() error {
	b, err := yaml.Marshal(c.data)
	if err != nil {
		return fmt.Errorf("error marshalling data for config file %v: %v", c.FullPath, err)
	}
	return c.write(b)
}

func (c *File) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := makeDir(c.Dirname); err != nil {
		return err
	}
	return ioutil.WriteFile(c.FullPath, b, 0600)
}
