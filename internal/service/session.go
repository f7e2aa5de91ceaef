package service

// Session runs one shell command on a remote node and returns its raw output
// streams. A non-zero exit status is not an error.
type Session interface {
	Run(cmd string) (stdout, stderr string, err error)
}

// RemoteSession is a Session owned by whoever opened it.
type RemoteSession interface {
	Session
	Close() error
}

// FileFetcher is implemented by sessions able to copy remote files locally.
type FileFetcher interface {
	FetchFile(remotePath, localPath string) error
}

type Connector interface {
	Connect(host string) (RemoteSession, error)
}

// ConnectorFactory builds a Connector bound to one set of credentials.
type ConnectorFactory func(port int, username, password string) Connector
