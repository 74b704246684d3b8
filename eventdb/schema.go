// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

// create a table for applied operations
const eventTableSchema = `
create table if not exists event (
	seq integer primary key autoincrement,
	time integer not null,
	op text not null,
	caller blob(32) not null,
	amount integer not null,
	taskID integer not null,
	data blob
);

CREATE INDEX if not exists callerIndex on event(caller);
CREATE INDEX if not exists opIndex on event(op);
`
