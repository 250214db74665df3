package db

// SetupSQL provisions the hosted Postgres backend: enum types, the four
// tables and owner-only row-level security. Every statement is idempotent.
const SetupSQL = `-- Creates the dashboard tables and row-level security policies.
-- Safe to run more than once.

DO $$ BEGIN
    CREATE TYPE public.machine_status AS ENUM ('Running', 'Idle', 'Maintenance', 'Error');
EXCEPTION
    WHEN duplicate_object THEN null;
END $$;
DO $$ BEGIN
    CREATE TYPE public.tool_status AS ENUM ('Active', 'Inactive', 'Needs Replacement');
EXCEPTION
    WHEN duplicate_object THEN null;
END $$;

CREATE TABLE IF NOT EXISTS public.machines (
  id TEXT PRIMARY KEY,
  user_id UUID REFERENCES auth.users(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  status machine_status NOT NULL,
  oee NUMERIC NOT NULL,
  running_time NUMERIC NOT NULL,
  idle_time NUMERIC NOT NULL,
  current_part TEXT,
  created_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS public.tools (
  id TEXT PRIMARY KEY,
  user_id UUID REFERENCES auth.users(id) ON DELETE CASCADE,
  type TEXT NOT NULL,
  remaining_life NUMERIC NOT NULL,
  location TEXT NOT NULL,
  status tool_status NOT NULL,
  created_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS public.production_records (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  user_id UUID REFERENCES auth.users(id) ON DELETE CASCADE,
  part_id TEXT NOT NULL,
  machine_name TEXT NOT NULL,
  quantity_produced INTEGER NOT NULL,
  scrap_count INTEGER NOT NULL,
  cycle_time NUMERIC NOT NULL,
  "timestamp" TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS public.cnc_time_logs (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  machine_name TEXT NOT NULL,
  work_order_number TEXT NOT NULL,
  work_piece_name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  si_no TEXT,
  in_time TIMESTAMPTZ NOT NULL,
  out_time TIMESTAMPTZ NOT NULL,
  user_id UUID REFERENCES auth.users(id) ON DELETE CASCADE,
  created_at TIMESTAMPTZ DEFAULT NOW()
);

ALTER TABLE public.machines ENABLE ROW LEVEL SECURITY;
ALTER TABLE public.tools ENABLE ROW LEVEL SECURITY;
ALTER TABLE public.production_records ENABLE ROW LEVEL SECURITY;
ALTER TABLE public.cnc_time_logs ENABLE ROW LEVEL SECURITY;

DROP POLICY IF EXISTS "Users can manage their own machines" ON public.machines;
DROP POLICY IF EXISTS "Users can manage their own tools" ON public.tools;
DROP POLICY IF EXISTS "Users can manage their own production records" ON public.production_records;
DROP POLICY IF EXISTS "Users can manage their own time logs" ON public.cnc_time_logs;

CREATE POLICY "Users can manage their own machines" ON public.machines
  FOR ALL TO authenticated USING (auth.uid() = user_id) WITH CHECK (auth.uid() = user_id);

CREATE POLICY "Users can manage their own tools" ON public.tools
  FOR ALL TO authenticated USING (auth.uid() = user_id) WITH CHECK (auth.uid() = user_id);

CREATE POLICY "Users can manage their own production records" ON public.production_records
  FOR ALL TO authenticated USING (auth.uid() = user_id) WITH CHECK (auth.uid() = user_id);

CREATE POLICY "Users can manage their own time logs" ON public.cnc_time_logs
  FOR ALL TO authenticated USING (auth.uid() = user_id) WITH CHECK (auth.uid() = user_id);
`

// SeedNote explains why no sample rows ship with the schema.
const SeedNote = `-- Rows are owned by individual users, so no sample data can be preloaded.
-- Sign in and add machines, tools and production records from the app.
-- Until then the dashboard shows generated sample data.
`
