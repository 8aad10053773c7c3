/*
Package gconf implements a configuration store intended to be used as an
in-database configuration singleton, one per package or contract.

Configuration messages are protobuf encoded and validated before every write.
They can be loaded from genesis style options with InitConfig:

	{
	  "conf": {
	    "wrapped": {"name": "Wrapped Coin", "symbol": "WCN", "decimals": 6}
	  }
	}
*/
package gconf
